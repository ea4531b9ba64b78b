package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/studybridge/apply-platform/internal/client/api"
	"github.com/studybridge/apply-platform/internal/client/session"
	"github.com/studybridge/apply-platform/internal/core/domain"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type cli struct {
	serverURL string
	dataPath  string

	api     *api.Client
	session *session.Session
	store   *session.SQLiteStore
}

// open builds the session from flags and resumes any persisted credential.
func (c *cli) open(ctx context.Context) error {
	store, err := session.OpenStore(c.dataPath)
	if err != nil {
		return err
	}
	c.store = store
	c.api = api.New(c.serverURL)
	c.session = session.New(c.api, store)

	if _, err := c.session.Resume(ctx); err != nil {
		return err
	}
	return nil
}

func (c *cli) close() {
	if c.store != nil {
		_ = c.store.Close()
	}
}

func (c *cli) requireAuth() error {
	if !c.session.IsAuthenticated() {
		return fmt.Errorf("not signed in (run 'studyctl login' first)")
	}
	return nil
}

func defaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "studyctl.db"
	}
	return filepath.Join(home, ".studyctl.db")
}

func newRootCommand() *cobra.Command {
	c := &cli{}

	cmd := &cobra.Command{
		Use:           "studyctl",
		Short:         "Command-line client for the StudyBridge apply platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.close()
		},
	}

	cmd.PersistentFlags().StringVar(&c.serverURL, "server", "http://localhost:8080", "Base URL of the apply-platform server")
	cmd.PersistentFlags().StringVar(&c.dataPath, "data", defaultDataPath(), "Path of the local session database")

	cmd.AddCommand(newRegisterCommand(c))
	cmd.AddCommand(newLoginCommand(c))
	cmd.AddCommand(newLogoutCommand(c))
	cmd.AddCommand(newWhoamiCommand(c))
	cmd.AddCommand(newProfileCommand(c))
	cmd.AddCommand(newQuestionnaireCommand(c))
	cmd.AddCommand(newApplicationsCommand(c))
	return cmd
}

func newRegisterCommand(c *cli) *cobra.Command {
	var input api.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.session.SignUp(cmd.Context(), input); err != nil {
				return err
			}
			fmt.Printf("registered %s\n", c.session.User().Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&input.Password, "password", "", "Password")
	cmd.Flags().StringVar(&input.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&input.LastName, "last-name", "", "Last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	return cmd
}

func newLoginCommand(c *cli) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.session.SignIn(cmd.Context(), email, password); err != nil {
				return err
			}
			fmt.Printf("signed in as %s, resume at step %d\n", c.session.User().Email, c.session.ResumeRegistration())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.session.SignOut(cmd.Context())
		},
	}
}

func newWhoamiCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			user := c.session.User()
			fmt.Printf("%s %s <%s>\n", user.FirstName, user.LastName, user.Email)
			return nil
		},
	}
}

func newProfileCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the profile as the server has it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			profile, err := c.session.RefreshProfile(cmd.Context())
			if err != nil {
				if apiErr, ok := err.(*api.Error); ok && apiErr.Status == http.StatusNotFound {
					fmt.Println("no profile yet")
					return nil
				}
				return err
			}
			return printJSON(profile)
		},
	})

	var updateJSON string
	update := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields from a JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			var upd api.ProfileUpdate
			if err := json.Unmarshal([]byte(updateJSON), &upd); err != nil {
				return fmt.Errorf("parse --fields: %w", err)
			}
			profile, err := c.session.UpdateProfile(cmd.Context(), upd)
			if err != nil {
				return err
			}
			return printJSON(profile)
		},
	}
	update.Flags().StringVar(&updateJSON, "fields", "{}", "Profile fields as JSON")
	cmd.AddCommand(update)

	return cmd
}

func newQuestionnaireCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questionnaire",
		Short: "Onboarding questionnaire operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "progress",
		Short: "Show questionnaire progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			progress, err := c.session.Progress(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("current step: %d\ncompleted: %v\n", progress.CurrentStep, progress.CompletedSteps)
			return nil
		},
	})

	var stepData string
	step := &cobra.Command{
		Use:   "step <number>",
		Short: "Save a questionnaire step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("step must be a number: %w", err)
			}
			var data api.ProfileUpdate
			if err := json.Unmarshal([]byte(stepData), &data); err != nil {
				return fmt.Errorf("parse --data: %w", err)
			}
			profile, err := c.session.SaveStep(cmd.Context(), n, data)
			if err != nil {
				return err
			}
			fmt.Printf("saved step %d, now at step %d\n", n, profile.CurrentStep)
			return nil
		},
	}
	step.Flags().StringVar(&stepData, "data", "{}", "Step fields as JSON")
	cmd.AddCommand(step)

	var completeData string
	complete := &cobra.Command{
		Use:   "complete",
		Short: "Finish the questionnaire",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			var data api.ProfileUpdate
			if err := json.Unmarshal([]byte(completeData), &data); err != nil {
				return fmt.Errorf("parse --data: %w", err)
			}
			if _, err := c.session.Complete(cmd.Context(), data); err != nil {
				return err
			}
			fmt.Println("questionnaire completed")
			return nil
		},
	}
	complete.Flags().StringVar(&completeData, "data", "{}", "Final profile fields as JSON")
	cmd.AddCommand(complete)

	return cmd
}

func newApplicationsCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "applications",
		Short: "University application tracking",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			apps, err := c.api.ListApplications(cmd.Context())
			if err != nil {
				return err
			}
			if len(apps) == 0 {
				fmt.Println("no applications")
				return nil
			}
			for _, app := range apps {
				fmt.Printf("%s  %-12s  %3d%%  %s / %s\n",
					app.Reference, app.Status, app.Progress, app.UniversityID, app.Program)
			}
			return nil
		},
	})

	var universityID, program string
	create := &cobra.Command{
		Use:   "create",
		Short: "Start a new application",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			app, err := c.api.CreateApplication(cmd.Context(), universityID, program)
			if err != nil {
				return err
			}
			fmt.Printf("created %s (%s)\n", app.Reference, app.Status)
			return nil
		},
	}
	create.Flags().StringVar(&universityID, "university", "", "University identifier")
	create.Flags().StringVar(&program, "program", "", "Program name")
	_ = create.MarkFlagRequired("university")
	_ = create.MarkFlagRequired("program")
	cmd.AddCommand(create)

	status := &cobra.Command{
		Use:   "status <reference> <status>",
		Short: "Move an application to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAuth(); err != nil {
				return err
			}
			app, err := c.api.UpdateApplicationStatus(cmd.Context(), args[0], domain.ApplicationStatus(args[1]))
			if err != nil {
				return err
			}
			fmt.Printf("%s is now %s (%d%%)\n", app.Reference, app.Status, app.Progress)
			return nil
		},
	}
	cmd.AddCommand(status)

	return cmd
}

func printJSON(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}
