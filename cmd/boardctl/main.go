package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/taskboard/client"
	domain "github.com/example/taskboard/domain/task"
)

var Version = "dev"

var (
	serverURL string
	statePath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "boardctl",
		Short:   "boardctl - terminal client for the taskboard server",
		Version: Version,
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3000", "taskboard server base URL")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", defaultStatePath(), "path to the client state file")

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(boardCmd())
	rootCmd.AddCommand(createCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(moveCmd())
	rootCmd.AddCommand(editCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskboard.json"
	}
	return filepath.Join(home, ".taskboard.json")
}

func newClient() (*client.Client, error) {
	store, err := client.NewFileStore(statePath)
	if err != nil {
		return nil, err
	}
	return client.New(serverURL, store), nil
}

// newBoard builds a board whose snapshot cache shares the client's
// state file, so a board painted within the last five minutes renders
// without a network round trip.
func newBoard() (*client.Board, error) {
	store, err := client.NewFileStore(statePath)
	if err != nil {
		return nil, err
	}
	api := client.New(serverURL, store)
	cache := client.NewSnapshotCache(store)
	board := client.NewBoard(api, cache, client.Observers{
		OnMoved: func(t domain.Task, from, to domain.Status) {
			fmt.Printf("Moved %q: %s -> %s\n", t.Title, from, to)
		},
		OnError: func(op string, err error) {
			fmt.Fprintf(os.Stderr, "%s failed: %v\n", op, err)
		},
	})
	return board, nil
}

func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			result, err := c.Login(context.Background(), username, password)
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (token valid for %ds)\n", username, result.ExpiresIn)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "admin", "login username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "login password")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func boardCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Render the board, one column per status",
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := newBoard()
			if err != nil {
				return err
			}

			ctx := context.Background()
			if refresh {
				err = board.Reload(ctx)
			} else {
				err = board.Load(ctx)
			}
			if err != nil {
				return err
			}

			renderBoard(board)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "bypass the local snapshot and fetch from the server")

	return cmd
}

func createCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a task in the PENDING column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := newBoard()
			if err != nil {
				return err
			}

			var desc *string
			if cmd.Flags().Changed("description") {
				desc = &description
			}

			created, err := board.CreateTask(context.Background(), args[0], desc)
			if err != nil {
				return err
			}
			fmt.Printf("Created %s (%s)\n", created.ID, created.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")

	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a single task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			t, err := c.GetTask(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("ID:          %s\n", t.ID)
			fmt.Printf("Title:       %s\n", t.Title)
			fmt.Printf("Status:      %s\n", t.Status)
			if t.Description != nil {
				fmt.Printf("Description: %s\n", *t.Description)
			}
			fmt.Printf("Created:     %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Printf("Updated:     %s\n", t.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move [id] [status]",
		Short: "Move a task to another column (PENDING, IN_PROGRESS, COMPLETED)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := domain.ParseStatus(strings.ToUpper(args[1]))
			if err != nil {
				return err
			}

			board, err := newBoard()
			if err != nil {
				return err
			}

			ctx := context.Background()
			if err := board.Reload(ctx); err != nil {
				return err
			}
			if err := board.BeginDrag(args[0]); err != nil {
				return err
			}
			if err := board.Drop(ctx, target); err != nil {
				return err
			}

			renderBoard(board)
			return nil
		},
	}
}

func editCmd() *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a task's title and description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := newBoard()
			if err != nil {
				return err
			}

			ctx := context.Background()
			if err := board.Reload(ctx); err != nil {
				return err
			}
			if err := board.StartEdit(args[0]); err != nil {
				return err
			}

			var desc *string
			if cmd.Flags().Changed("description") {
				desc = &description
			}

			updated, err := board.SubmitEdit(ctx, args[0], title, desc)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %s (%s)\n", updated.ID, updated.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func renderBoard(board *client.Board) {
	for _, status := range domain.Statuses() {
		tasks := board.Column(status)
		fmt.Printf("%s (%d)\n", status, len(tasks))
		fmt.Println(strings.Repeat("-", len(string(status))+4))
		if len(tasks) == 0 {
			fmt.Println("  (empty)")
		}
		for _, t := range tasks {
			fmt.Printf("  %s  %s\n", t.ID, t.Title)
		}
		fmt.Println()
	}
}
