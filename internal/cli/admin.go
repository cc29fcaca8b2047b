package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DekunleJr/Signatures/internal/view"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administer the site",
}

var adminUsersCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"ls"},
	Short:   "List registered users",
	RunE:    runAdminUsers,
}

var adminBlockCmd = &cobra.Command{
	Use:   "block [user-id]",
	Short: "Block or unblock a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminBlock,
}

var adminEditCmd = &cobra.Command{
	Use:   "edit [user-id]",
	Short: "Edit a user's profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminEdit,
}

var adminBroadcastCmd = &cobra.Command{
	Use:   "broadcast",
	Short: "Email every registered user",
	RunE:  runAdminBroadcast,
}

func init() {
	adminCmd.AddCommand(adminUsersCmd)
	adminCmd.AddCommand(adminBlockCmd)
	adminCmd.AddCommand(adminEditCmd)
	adminCmd.AddCommand(adminBroadcastCmd)

	adminUsersCmd.Flags().Int("page", 1, "Page to show")

	adminEditCmd.Flags().String("first-name", "", "New first name")
	adminEditCmd.Flags().String("last-name", "", "New last name")
	adminEditCmd.Flags().String("phone", "", "New phone number")

	adminBroadcastCmd.Flags().String("subject", "", "Email subject")
	adminBroadcastCmd.Flags().String("body", "", "Email body")
	_ = adminBroadcastCmd.MarkFlagRequired("subject")
	_ = adminBroadcastCmd.MarkFlagRequired("body")
}

func runAdminUsers(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	listing := view.NewUserListing(app.client, app.session, app.cfg.PageSize)
	if pageFlag, _ := cmd.Flags().GetInt("page"); pageFlag > 1 {
		if err := listing.Fetch(context.Background()); err != nil {
			return err
		}
		if !listing.SetPage(pageFlag) {
			return fmt.Errorf("page %d out of range (1-%d)", pageFlag, listing.TotalPages())
		}
	}
	if err := listing.Fetch(context.Background()); err != nil {
		return err
	}

	users := listing.Items()
	if len(users) == 0 {
		fmt.Println("No users.")
		return nil
	}

	fmt.Println()
	for _, u := range users {
		role := ""
		if u.IsAdmin {
			role = " [admin]"
		}
		fmt.Printf("#%-4d %-30s %-25s %s%s\n", u.ID, u.Email, u.FullName(), u.Status, role)
	}
	fmt.Printf("\nPage %d/%d\n", listing.Page(), listing.TotalPages())
	return nil
}

func runAdminBlock(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	user, err := app.client.BlockUnblockUser(context.Background(), id)
	if err != nil {
		return err
	}
	fmt.Printf("✅ %s is now %s\n", user.Email, user.Status)
	return nil
}

func runAdminEdit(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
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

	user, err := app.client.UpdateUser(context.Background(), id, fields)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Updated %s\n", user.Email)
	return nil
}

func runAdminBroadcast(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	subject, _ := cmd.Flags().GetString("subject")
	body, _ := cmd.Flags().GetString("body")

	if err := app.client.BroadcastEmail(context.Background(), subject, body); err != nil {
		return err
	}
	fmt.Println("📬 Broadcast sent.")
	return nil
}
