package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show your profile and liked works",
	RunE:  runDashboard,
}

var orderCmd = &cobra.Command{
	Use:   "order [work-id]",
	Short: "Request an order for a work",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrder,
}

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a message through the contact form",
	RunE:  runContact,
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update your profile",
	RunE:  runProfile,
}

func init() {
	orderCmd.Flags().String("message", "", "Message to include with the order")

	contactCmd.Flags().String("name", "", "Your name")
	contactCmd.Flags().String("email", "", "Your email address")
	contactCmd.Flags().String("message", "", "Message text")

	profileCmd.Flags().String("first-name", "", "New first name")
	profileCmd.Flags().String("last-name", "", "New last name")
	profileCmd.Flags().String("phone", "", "New phone number")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	if !app.session.LoggedIn() {
		fmt.Println("Log in to see your dashboard.")
		return nil
	}

	dash, err := app.client.DashboardData(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("\n👤 %s <%s>\n", dash.FullName(), dash.Email)
	if dash.PhoneNumber != "" {
		fmt.Printf("   📞 %s\n", dash.PhoneNumber)
	}

	if len(dash.LikedWorks) == 0 {
		fmt.Println("\nNo liked works yet.")
		return nil
	}
	fmt.Printf("\n❤️  Liked works (%d):\n", len(dash.LikedWorks))
	for _, w := range dash.LikedWorks {
		fmt.Printf("   #%-4d %s\n", w.ID, w.Title)
	}
	return nil
}

func runOrder(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	if !app.session.LoggedIn() {
		fmt.Println("Log in to order works.")
		return nil
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	message, _ := cmd.Flags().GetString("message")
	if message == "" {
		message = prompt("Message")
	}

	if err := app.client.OrderWork(context.Background(), id, message); err != nil {
		return err
	}
	fmt.Println("✅ Order request sent! You will hear back by email.")
	return nil
}

func runContact(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	message, _ := cmd.Flags().GetString("message")

	// Fall back to the stored profile, then to prompting.
	if user := app.session.User(); user != nil {
		if name == "" {
			name = user.FullName()
		}
		if email == "" {
			email = user.Email
		}
	}
	if name == "" {
		name = prompt("Name")
	}
	if email == "" {
		email = prompt("Email")
	}
	if message == "" {
		message = prompt("Message")
	}

	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("message required")
	}

	if err := app.client.Contact(context.Background(), name, email, message); err != nil {
		return err
	}
	fmt.Println("✅ Message sent!")
	return nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	if !app.session.LoggedIn() {
		fmt.Println("Log in to edit your profile.")
		return nil
	}

	fields := map[string]string{}
	if v, _ := cmd.Flags().GetString("first-name"); v != "" {
		fields["first_name"] = v
	}
	if v, _ := cmd.Flags().GetString("last-name"); v != "" {
		fields["last_name"] = v
	}
	if v, _ := cmd.Flags().GetString("phone"); v != "" {
		fields["phone_number"] = v
	}
	if len(fields) == 0 {
		fmt.Println("Nothing to update. Pass --first-name, --last-name, or --phone.")
		return nil
	}

	user, err := app.client.UpdateProfile(context.Background(), fields)
	if err != nil {
		return err
	}

	// Keep the stored profile in step with the server.
	app.session.Login(app.session.Token(), user)
	fmt.Printf("✅ Profile updated: %s <%s>\n", user.FullName(), user.Email)
	return nil
}
