package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Sumatoshi-tech/xpfang/pkg/observability"
)

// PasswordEnv supplies the password without a prompt.
const PasswordEnv = "XPFANG_PASSWORD"

const (
	userPrompt     = "Username or email: "
	passwordPrompt = "Password: "
)

// ErrMissingCredentials is returned when the identifier or password is empty.
var ErrMissingCredentials = errors.New("username and password are required")

// NewLoginCommand creates the login subcommand.
func NewLoginCommand(opts *GlobalOptions) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Long: `Sign in to the platform with a username or email and a password.

The password is read from XPFANG_PASSWORD when set, otherwise it is prompted
for without echo. The token is stored in the user config directory, or in
session.token_file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(opts, observability.ModeCLI, nil)
			if err != nil {
				return err
			}
			defer rt.close()

			in := bufio.NewReader(cobraCmd.InOrStdin())

			if user == "" {
				user, err = promptLine(cobraCmd.ErrOrStderr(), in, userPrompt)
				if err != nil {
					return err
				}
			}

			password, err := readPassword(cobraCmd, in)
			if err != nil {
				return err
			}

			if user == "" || password == "" {
				return ErrMissingCredentials
			}

			_, err = rt.session.Login(cobraCmd.Context(), user, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(cobraCmd.OutOrStdout(), "Signed in as %s\n", user)

			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "username or email")

	return cmd
}

// NewLogoutCommand creates the logout subcommand.
func NewLogoutCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "logout",
		Short:         "Forget the stored session token",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(opts, observability.ModeCLI, nil)
			if err != nil {
				return err
			}
			defer rt.close()

			err = rt.session.Logout()
			if err != nil {
				return err
			}

			fmt.Fprintln(cobraCmd.OutOrStdout(), "Signed out")

			return nil
		},
	}
}

// NewWhoamiCommand creates the whoami subcommand.
func NewWhoamiCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "whoami",
		Short:         "Show the signed-in user",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(opts, observability.ModeCLI, nil)
			if err != nil {
				return err
			}
			defer rt.close()

			user, err := rt.fetcher().User(cobraCmd.Context())
			if err != nil {
				return withLoginHint(err)
			}

			out := cobraCmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s), id %d\n", user.Login, user.DisplayName(), user.ID)

			token, tokenErr := rt.session.Token()
			if tokenErr == nil {
				claims, claimsErr := token.Claims()
				if claimsErr == nil && !claims.ExpiresAt.IsZero() {
					fmt.Fprintf(out, "Session expires %s\n", humanize.Time(claims.ExpiresAt))
				}
			}

			return nil
		},
	}
}

func promptLine(w io.Writer, in *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(w, prompt)

	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// readPassword takes the password from PasswordEnv, a no-echo terminal
// prompt, or a plain line of input when stdin is not a terminal.
func readPassword(cobraCmd *cobra.Command, in *bufio.Reader) (string, error) {
	if password := os.Getenv(PasswordEnv); password != "" {
		return password, nil
	}

	if f, ok := cobraCmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cobraCmd.ErrOrStderr(), passwordPrompt)

		raw, err := term.ReadPassword(int(f.Fd()))

		fmt.Fprintln(cobraCmd.ErrOrStderr())

		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}

		return string(raw), nil
	}

	return promptLine(cobraCmd.ErrOrStderr(), in, passwordPrompt)
}
