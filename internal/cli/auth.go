package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/DekunleJr/Signatures/internal/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Log in, sign up, verify your email, and manage your password.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the stored session",
	RunE:  runLogout,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new account",
	RunE:  runSignup,
}

var verifyCmd = &cobra.Command{
	Use:   "verify [token]",
	Short: "Verify your email with the token from the verification link",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runVerify,
}

var googleCmd = &cobra.Command{
	Use:   "google [id-token]",
	Short: "Log in with a Google ID token",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoogle,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset a forgotten password via emailed OTP",
	RunE:  runReset,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE:  runWhoami,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(signupCmd)
	authCmd.AddCommand(verifyCmd)
	authCmd.AddCommand(googleCmd)
	authCmd.AddCommand(resetCmd)
	authCmd.AddCommand(whoamiCmd)
}

func prompt(label string) string {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print(label + ": ")
	value, _ := reader.ReadString('\n')
	return strings.TrimSpace(value)
}

func promptPassword(label string) string {
	fmt.Print(label + ": ")
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	return string(passwordBytes)
}

func runLogin(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	email := prompt("Email")
	password := promptPassword("Password")

	fmt.Println("🔄 Logging in...")
	flow := auth.NewPasswordLogin(app.client, app.session)
	if err := flow.Submit(context.Background(), email, password); err != nil {
		fmt.Printf("❌ %s\n", flow.Message())

		if flow.Reason() == auth.ReasonPendingVerification {
			if strings.EqualFold(prompt("Resend verification email? (y/N)"), "y") {
				if err := flow.ResendVerification(context.Background(), email); err == nil {
					fmt.Println("📬 Verification email sent.")
				}
			}
		}
		return err
	}

	fmt.Printf("✅ Logged in as %s\n", app.session.User().Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	if !app.session.LoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	app.session.Logout()
	fmt.Println("✅ Logged out successfully.")
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	in := auth.SignupInput{
		Email:       prompt("Email"),
		FirstName:   prompt("First name"),
		LastName:    prompt("Last name"),
		PhoneNumber: prompt("Phone number"),
	}
	in.Password = promptPassword("Password")
	in.ConfirmPassword = promptPassword("Confirm password")

	fmt.Println("🔄 Creating account...")
	flow := auth.NewSignup(app.client, app.session)
	if err := flow.Submit(context.Background(), in); err != nil {
		fmt.Printf("❌ %s\n", flow.Message())
		return err
	}

	fmt.Println("📬 Account created! Check your email to verify it.")
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	token := ""
	if len(args) > 0 {
		token = args[0]
	}

	flow := auth.NewEmailVerification(app.client, app.session)
	if err := flow.Run(context.Background(), token); err != nil {
		fmt.Printf("❌ %s\n", flow.Message())
		return err
	}

	fmt.Printf("✅ %s\n", flow.Message())
	return nil
}

func runGoogle(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	fmt.Println("🔄 Exchanging Google credential...")
	flow := auth.NewGoogleLogin(app.client, app.session)
	if err := flow.Exchange(context.Background(), args[0]); err != nil {
		fmt.Printf("❌ %s\n", flow.Message())
		return err
	}

	fmt.Printf("✅ Logged in as %s\n", app.session.User().Email)
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	flow := auth.NewPasswordReset(app.client, app.session)

	email := prompt("Email")
	fmt.Println("🔄 Requesting OTP...")
	if err := flow.RequestOTP(context.Background(), email); err != nil {
		fmt.Printf("❌ %s\n", flow.Message())
		return err
	}
	fmt.Println("📬 OTP sent! Check your email.")

	otp := prompt("OTP")
	newPassword := promptPassword("New password")
	confirm := promptPassword("Confirm new password")

	if err := flow.Submit(context.Background(), otp, newPassword, confirm); err != nil {
		fmt.Printf("❌ %s\n", flow.Message())
		return err
	}

	fmt.Println("✅ Password reset! Log in with your new password.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	user := app.session.User()
	if user == nil {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Printf("👤 %s <%s>\n", user.FullName(), user.Email)
	if user.IsAdmin {
		fmt.Println("   administrator")
	}
	return nil
}
