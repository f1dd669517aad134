package suggest_test

import (
	"fmt"

	"albaranes/internal/suggest"
)

func ExampleBuildPrompt() {
	fmt.Println(suggest.BuildPrompt("Cliente de Prueba SL", []string{"Tomate", "Pimiento"}))
	// Output:
	// Escribe una breve nota profesional de agradecimiento personalizada para un albarán. El cliente es Cliente de Prueba SL. Los productos son: Tomate, Pimiento. Limítate a 2 frases en español.
}
