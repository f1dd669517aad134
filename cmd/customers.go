package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"albaranes/internal/logger"
	"albaranes/pkg/models"
)

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Manage the customer directory",
	Long: `List, add, update and delete customers. Issued delivery notes keep
their own copy of the customer, so edits never change past notes.`,
}

var customersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers, optionally filtered by name or tax id",
	Example: `  albaranes customers list
  albaranes customers list --search gourmet`,
	Args: cobra.NoArgs,
	RunE: runCustomersList,
}

var customersAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Add a customer",
	Example: `  albaranes customers add --name "Fruterías García SL" --tax-id B12345678 --address "Mercamadrid, Nave 12"`,
	Args:    cobra.NoArgs,
	RunE:    runCustomersSave,
}

var customersUpdateCmd = &cobra.Command{
	Use:     "update [id]",
	Short:   "Update the given fields of a customer",
	Example: `  albaranes customers update 1 --phone 912345678`,
	Args:    cobra.ExactArgs(1),
	RunE:    runCustomersSave,
}

var customersDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a customer",
	Args:  cobra.ExactArgs(1),
	RunE:  runCustomersDelete,
}

func init() {
	rootCmd.AddCommand(customersCmd)
	customersCmd.AddCommand(customersListCmd, customersAddCmd, customersUpdateCmd, customersDeleteCmd)

	customersListCmd.Flags().StringP("search", "s", "", "Filter by name or tax id")
	customersListCmd.Flags().Bool("json", false, "Print as JSON")

	for _, c := range []*cobra.Command{customersAddCmd, customersUpdateCmd} {
		c.Flags().String("name", "", "Legal or trade name")
		c.Flags().String("address", "", "Postal address")
		c.Flags().String("tax-id", "", "NIF/CIF")
		c.Flags().String("email", "", "Email address")
		c.Flags().String("phone", "", "Phone number")
	}
}

func runCustomersList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("customers")
	search, _ := cmd.Flags().GetString("search")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	svc, _, err := openService(ctx, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	customers, err := svc.SearchCustomers(ctx, search)
	if err != nil {
		return handleError(err, log)
	}

	if asJSON {
		if customers == nil {
			customers = []models.Customer{}
		}
		return printJSON(customers)
	}
	if len(customers) == 0 {
		fmt.Println("No customers found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTAX ID\tPHONE\tEMAIL")
	for _, c := range customers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.TaxID, c.Phone, c.Email)
	}
	return w.Flush()
}

func runCustomersSave(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("customers")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	svc, _, err := openService(ctx, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	var customer models.Customer
	if len(args) == 1 {
		customer, err = svc.Customer(ctx, args[0])
		if err != nil {
			return handleError(err, log)
		}
	}

	applyString(cmd, "name", &customer.Name)
	applyString(cmd, "address", &customer.Address)
	applyString(cmd, "tax-id", &customer.TaxID)
	applyString(cmd, "email", &customer.Email)
	applyString(cmd, "phone", &customer.Phone)

	saved, err := svc.SaveCustomer(ctx, customer)
	if err != nil {
		return handleError(err, log)
	}

	fmt.Printf("Customer saved: %s (%s)\n", saved.Name, saved.ID)
	return nil
}

func runCustomersDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("customers")

	ctx, cancel := createContext(cmd, log)
	defer cancel()

	svc, _, err := openService(ctx, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.DeleteCustomer(ctx, args[0]); err != nil {
		return handleError(err, log)
	}
	fmt.Printf("Customer %s deleted\n", args[0])
	return nil
}
