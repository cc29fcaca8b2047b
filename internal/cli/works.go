package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/DekunleJr/Signatures/internal/api"
	"github.com/DekunleJr/Signatures/internal/view"
)

var worksCmd = &cobra.Command{
	Use:     "works",
	Aliases: []string{"portfolio"},
	Short:   "Browse and manage the portfolio",
	RunE:    runWorksList,
}

var worksListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List portfolio works",
	RunE:    runWorksList,
}

var worksShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one work",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorksShow,
}

var worksLikeCmd = &cobra.Command{
	Use:   "like [id]",
	Short: "Toggle your like on a work",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorksLike,
}

var worksAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a work (admin)",
	RunE:  runWorksAdd,
}

var worksUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a work (admin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorksUpdate,
}

var worksDeleteCmd = &cobra.Command{
	Use:     "rm [id]",
	Aliases: []string{"delete"},
	Short:   "Delete a work (admin)",
	Args:    cobra.ExactArgs(1),
	RunE:    runWorksDelete,
}

var worksCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List portfolio categories",
	RunE:  runWorksCategories,
}

var worksAddCategoryCmd = &cobra.Command{
	Use:   "add-category [title]",
	Short: "Add a portfolio category (admin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorksAddCategory,
}

func init() {
	worksCmd.AddCommand(worksListCmd)
	worksCmd.AddCommand(worksShowCmd)
	worksCmd.AddCommand(worksLikeCmd)
	worksCmd.AddCommand(worksAddCmd)
	worksCmd.AddCommand(worksUpdateCmd)
	worksCmd.AddCommand(worksDeleteCmd)
	worksCmd.AddCommand(worksCategoriesCmd)
	worksCmd.AddCommand(worksAddCategoryCmd)

	for _, c := range []*cobra.Command{worksCmd, worksListCmd} {
		c.Flags().Int("page", 1, "Page to show")
	}

	for _, c := range []*cobra.Command{worksAddCmd, worksUpdateCmd} {
		c.Flags().String("title", "", "Work title")
		c.Flags().String("description", "", "Work description")
		c.Flags().Int64("category", 0, "Category id")
		c.Flags().String("image", "", "Path to the primary image")
		c.Flags().StringSlice("extra", nil, "Paths to extra images")
	}
	_ = worksAddCmd.MarkFlagRequired("title")
	_ = worksAddCmd.MarkFlagRequired("image")
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %s", arg)
	}
	return id, nil
}

// openUpload opens a local file as a multipart upload part.
func openUpload(path string) (*api.FileUpload, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open image: %w", err)
	}
	return &api.FileUpload{Filename: filepath.Base(path), Reader: f}, func() { _ = f.Close() }, nil
}

func likeMarker(liked bool) string {
	if liked {
		return "❤️ "
	}
	return "   "
}

func runWorksList(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	listing := view.NewWorkListing(app.client, app.session, app.cfg.PageSize)
	if pageFlag, _ := cmd.Flags().GetInt("page"); pageFlag > 1 {
		// The first fetch learns the total, then the cursor can move.
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

	works := listing.Items()
	if len(works) == 0 {
		fmt.Println("No works yet.")
		return nil
	}

	fmt.Println()
	for _, w := range works {
		fmt.Printf("%s#%-4d %-30s %s\n", likeMarker(w.LikedByUser), w.ID, w.Title, w.ImgURL)
	}
	fmt.Println()
	fmt.Printf("Page %d/%d (%d works)\n", listing.Page(), listing.TotalPages(), listing.TotalCount())
	return nil
}

func runWorksShow(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	w, err := app.client.Work(context.Background(), id)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s#%d %s\n", likeMarker(w.LikedByUser), w.ID, w.Title)
	if w.Description != "" {
		fmt.Printf("   %s\n", w.Description)
	}
	fmt.Printf("   image: %s\n", w.ImgURL)
	for _, u := range w.OtherImageURLs {
		fmt.Printf("   extra: %s\n", u)
	}
	return nil
}

func runWorksLike(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	if !app.session.LoggedIn() {
		fmt.Println("Log in to like works.")
		return nil
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	liked, err := app.client.WorkLiked(context.Background(), id)
	if err != nil {
		return err
	}
	if liked {
		if err := app.client.UnlikeWork(context.Background(), id); err != nil {
			return err
		}
		fmt.Println("💔 Unliked.")
	} else {
		if err := app.client.LikeWork(context.Background(), id); err != nil {
			return err
		}
		fmt.Println("❤️  Liked!")
	}
	return nil
}

func workInputFromFlags(cmd *cobra.Command) api.WorkInput {
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	category, _ := cmd.Flags().GetInt64("category")
	return api.WorkInput{Title: title, Description: description, CategoryID: category}
}

func uploadsFromFlags(cmd *cobra.Command) (image *api.FileUpload, extras []api.FileUpload, closeAll func(), err error) {
	var closers []func()
	closeAll = func() {
		for _, c := range closers {
			c()
		}
	}

	if path, _ := cmd.Flags().GetString("image"); path != "" {
		up, done, err := openUpload(path)
		if err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		closers = append(closers, done)
		image = up
	}

	extraPaths, _ := cmd.Flags().GetStringSlice("extra")
	for _, path := range extraPaths {
		up, done, err := openUpload(path)
		if err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		closers = append(closers, done)
		extras = append(extras, *up)
	}
	return image, extras, closeAll, nil
}

func runWorksAdd(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	image, extras, closeAll, err := uploadsFromFlags(cmd)
	if err != nil {
		return err
	}
	defer closeAll()

	w, err := app.client.CreateWork(context.Background(), workInputFromFlags(cmd), image, extras)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Created work #%d: %s\n", w.ID, w.Title)
	return nil
}

func runWorksUpdate(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	image, extras, closeAll, err := uploadsFromFlags(cmd)
	if err != nil {
		return err
	}
	defer closeAll()

	w, err := app.client.UpdateWork(context.Background(), id, workInputFromFlags(cmd), image, extras)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Updated work #%d: %s\n", w.ID, w.Title)
	return nil
}

func runWorksDelete(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err := app.client.DeleteWork(context.Background(), id); err != nil {
		return err
	}
	fmt.Printf("🗑️  Deleted work #%d\n", id)
	return nil
}

func runWorksCategories(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	categories, err := app.client.Categories(context.Background())
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		fmt.Println("No categories yet.")
		return nil
	}
	for _, cat := range categories {
		fmt.Printf("#%-4d %s\n", cat.ID, cat.Title)
	}
	return nil
}

func runWorksAddCategory(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	cat, err := app.client.CreateCategory(context.Background(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("✅ Created category #%d: %s\n", cat.ID, cat.Title)
	return nil
}
