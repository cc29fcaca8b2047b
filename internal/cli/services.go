package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DekunleJr/Signatures/internal/api"
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "Browse and manage services",
	RunE:  runServicesList,
}

var servicesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a service (admin)",
	RunE:  runServicesAdd,
}

var servicesUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a service (admin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runServicesUpdate,
}

var servicesDeleteCmd = &cobra.Command{
	Use:     "rm [id]",
	Aliases: []string{"delete"},
	Short:   "Delete a service (admin)",
	Args:    cobra.ExactArgs(1),
	RunE:    runServicesDelete,
}

func init() {
	servicesCmd.AddCommand(servicesAddCmd)
	servicesCmd.AddCommand(servicesUpdateCmd)
	servicesCmd.AddCommand(servicesDeleteCmd)

	servicesCmd.Flags().Int("skip", 0, "Items to skip")

	for _, c := range []*cobra.Command{servicesAddCmd, servicesUpdateCmd} {
		c.Flags().String("title", "", "Service title")
		c.Flags().String("description", "", "Service description")
		c.Flags().String("image", "", "Path to the service image")
	}
	_ = servicesAddCmd.MarkFlagRequired("title")
}

func runServicesList(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	skip, _ := cmd.Flags().GetInt("skip")
	page, err := app.client.Services(context.Background(), skip, app.cfg.PageSize)
	if err != nil {
		return err
	}
	if len(page.Items) == 0 {
		fmt.Println("No services yet.")
		return nil
	}

	fmt.Println()
	for _, sv := range page.Items {
		fmt.Printf("#%-4d %-30s %s\n", sv.ID, sv.Title, sv.Description)
	}
	fmt.Printf("\n%d services\n", page.TotalCount)
	return nil
}

func serviceInputFromFlags(cmd *cobra.Command) api.ServiceInput {
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	return api.ServiceInput{Title: title, Description: description}
}

func serviceImageFromFlags(cmd *cobra.Command) (*api.FileUpload, func(), error) {
	path, _ := cmd.Flags().GetString("image")
	if path == "" {
		return nil, func() {}, nil
	}
	return openUpload(path)
}

func runServicesAdd(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	image, done, err := serviceImageFromFlags(cmd)
	if err != nil {
		return err
	}
	defer done()

	sv, err := app.client.CreateService(context.Background(), serviceInputFromFlags(cmd), image)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Created service #%d: %s\n", sv.ID, sv.Title)
	return nil
}

func runServicesUpdate(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	image, done, err := serviceImageFromFlags(cmd)
	if err != nil {
		return err
	}
	defer done()

	sv, err := app.client.UpdateService(context.Background(), id, serviceInputFromFlags(cmd), image)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Updated service #%d: %s\n", sv.ID, sv.Title)
	return nil
}

func runServicesDelete(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err := app.client.DeleteService(context.Background(), id); err != nil {
		return err
	}
	fmt.Printf("🗑️  Deleted service #%d\n", id)
	return nil
}
