package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/sandeepkv93/tasklist/internal/commands"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/store"
	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a todo to the end of the active list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd, func(ctx context.Context, st *store.Store) error {
				item, err := st.Add(ctx, args[0], note)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s %s\n", shortID(item.ID), item.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "Optional note")
	return cmd
}

func newDoneCmd(app *App) *cobra.Command {
	var view viewFlags
	cmd := &cobra.Command{
		Use:     "done <ref>",
		Aliases: []string{"toggle"},
		Short:   "Toggle a todo between active and completed",
		Long:    refHelp,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd, func(ctx context.Context, st *store.Store) error {
				target, err := view.resolve(st, args[0])
				if err != nil {
					return err
				}
				item, err := st.Toggle(ctx, target.ID)
				if err != nil {
					return err
				}
				state := "reopened"
				if item.Done {
					state = "completed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", state, item.Title)
				return nil
			})
		},
	}
	view.bind(cmd)
	return cmd
}

func newRmCmd(app *App) *cobra.Command {
	var view viewFlags
	cmd := &cobra.Command{
		Use:     "rm <ref>",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Long:    refHelp,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd, func(ctx context.Context, st *store.Store) error {
				target, err := view.resolve(st, args[0])
				if err != nil {
					return err
				}
				if err := st.Delete(ctx, target.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", target.Title)
				return nil
			})
		},
	}
	view.bind(cmd)
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var (
		title string
		note  string
		view  viewFlags
	)
	cmd := &cobra.Command{
		Use:   "edit <ref>",
		Short: "Change the title and optionally the note of a todo",
		Long:  refHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd, func(ctx context.Context, st *store.Store) error {
				target, err := view.resolve(st, args[0])
				if err != nil {
					return err
				}
				newTitle := target.Title
				if cmd.Flags().Changed("title") {
					newTitle = title
				}
				var notePtr *string
				if cmd.Flags().Changed("note") {
					notePtr = &note
				}
				item, err := st.Update(ctx, target.ID, newTitle, notePtr)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", item.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&note, "note", "", "New note (empty string clears it)")
	view.bind(cmd)
	return cmd
}

type listedItem struct {
	Position  int       `json:"position"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Note      string    `json:"note,omitempty"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"createdAt"`
	Order     int       `json:"order"`
}

func newLsCmd(app *App) *cobra.Command {
	var (
		view   viewFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List todos in display order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd, func(ctx context.Context, st *store.Store) error {
				if err := view.apply(st); err != nil {
					return err
				}
				visible := st.Visible()

				out := cmd.OutOrStdout()
				if asJSON {
					rows := make([]listedItem, 0, len(visible))
					for i, item := range visible {
						rows = append(rows, listedItem{
							Position:  i + 1,
							ID:        item.ID,
							Title:     item.Title,
							Note:      item.Note,
							Done:      item.Done,
							CreatedAt: item.CreatedAt,
							Order:     item.Order,
						})
					}
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(rows)
				}

				if len(visible) == 0 {
					fmt.Fprintln(out, "No todos found")
					return nil
				}
				for i, item := range visible {
					mark := " "
					if item.Done {
						mark = "x"
					}
					fmt.Fprintf(out, "%3d. [%s] %s  (%s)\n", i+1, mark, item.Title, shortID(item.ID))
					if item.Note != "" {
						fmt.Fprintf(out, "       %s\n", item.Note)
					}
				}
				counts := st.Counts()
				fmt.Fprintf(out, "Active: %d  Completed: %d\n", counts.Active, counts.Completed)
				return nil
			})
		},
	}
	view.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every completed todo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd, func(ctx context.Context, st *store.Store) error {
				n, err := st.ClearCompleted(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %d completed\n", n)
				return nil
			})
		},
	}
}

func newMvCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "mv <from> <to>",
		Aliases: []string{"move"},
		Short:   "Move the todo at one position to another (1-based, as shown by ls)",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			to, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			return app.withStore(cmd, func(ctx context.Context, st *store.Store) error {
				if err := st.Reorder(ctx, from-1, to-1); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "moved %d to %d\n", from, to)
				return nil
			})
		},
	}
}

func newThemeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "theme [light|dark]",
		Short: "Set the theme, or toggle it when no argument is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var want model.Theme
			if len(args) == 1 {
				t, err := model.ParseTheme(args[0])
				if err != nil {
					return err
				}
				want = t
			}
			return app.withStore(cmd, func(ctx context.Context, st *store.Store) error {
				if want == "" {
					t, err := st.ToggleTheme(ctx)
					if err != nil {
						return err
					}
					want = t
				} else if err := st.SetTheme(ctx, want); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "theme: %s\n", want)
				return nil
			})
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the stored snapshot as JSON to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd, func(ctx context.Context, _ *store.Store) error {
				return app.adapter.Export(ctx, cmd.OutOrStdout())
			})
		},
	}
}

const refHelp = `A <ref> is a 1-based position, an item id, or a unique id prefix.
Positions count within the view selected by --filter and --search, so pass
the same flags that were given to ls.`

// viewFlags selects the view that ls prints and that positions resolve in.
type viewFlags struct {
	filter string
	search string
}

func (v *viewFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&v.filter, "filter", string(model.FilterAll), "Filter: all, active or completed")
	cmd.Flags().StringVar(&v.search, "search", "", "Case-insensitive text to match in title or note")
}

func (v *viewFlags) apply(st *store.Store) error {
	f, err := model.ParseFilter(v.filter)
	if err != nil {
		return err
	}
	if err := st.SetFilter(f); err != nil {
		return err
	}
	st.SetSearch(v.search)
	return nil
}

func (v *viewFlags) resolve(st *store.Store, ref string) (model.Item, error) {
	if err := v.apply(st); err != nil {
		return model.Item{}, err
	}
	return commands.ResolveRef(st.Visible(), ref)
}

func parsePosition(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: position %q", model.ErrIndexOutOfRange, raw)
	}
	return n, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
