package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/z9m/backdrop/pkg/errors"
	"github.com/z9m/backdrop/pkg/geom"
	"github.com/z9m/backdrop/pkg/profile"
	"github.com/z9m/backdrop/pkg/scene"
)

// profilesCommand creates the profile management command.
func (c *CLI) profilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"profile"},
		Short:   "Manage overlay profiles",
		Long: `Manage overlay profiles.

A profile names the areas of the screen covered by a display overlay, in
1920x1080 coordinates. Scenes that reference a profile are laid out around
its areas.`,
	}

	cmd.AddCommand(c.profilesListCommand())
	cmd.AddCommand(c.profilesShowCommand())
	cmd.AddCommand(c.profilesAddCommand())
	cmd.AddCommand(c.profilesAreasCommand())
	cmd.AddCommand(c.profilesDeleteCommand())

	return cmd
}

// withStore opens the configured profile store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(profile.Store) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg.Profiles)
	if err != nil {
		return fmt.Errorf("open profile store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// profilesListCommand creates the "profiles list" subcommand.
func (c *CLI) profilesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List overlay profiles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(store profile.Store) error {
				list, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(list) == 0 {
					printInfo("No profiles")
					printNextStep("Create one", "backdrop profiles add --name TV --area 1500,0,420,200")
					return nil
				}
				fmt.Println(profileTable(list))
				return nil
			})
		},
	}
}

func profileTable(list []profile.Profile) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("ID", "NAME", "AREAS", "OVERLAYS").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return StyleTitle.Padding(0, 1)
			case col == 0:
				return StyleHighlight.Padding(0, 1)
			default:
				return StyleValue.Padding(0, 1)
			}
		})
	for _, p := range list {
		t.Row(p.ID, p.Name, strconv.Itoa(len(p.BlockedAreas)), overlayNames(p))
	}
	return t.String()
}

func overlayNames(p profile.Profile) string {
	var names []string
	for _, n := range []string{p.File1080, p.File4K} {
		if n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

// profilesShowCommand creates the "profiles show" subcommand.
func (c *CLI) profilesShowCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(store profile.Store) error {
				p, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(p)
				}
				printKeyValue("id", p.ID)
				printKeyValue("name", p.Name)
				printKeyValue("overlays", overlayNames(*p))
				printKeyValue("areas", strconv.Itoa(len(p.BlockedAreas)))
				for _, a := range p.BlockedAreas {
					printDetail("%s", formatArea(a))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the profile as JSON")
	return cmd
}

// profilesAddCommand creates the "profiles add" subcommand.
func (c *CLI) profilesAddCommand() *cobra.Command {
	var (
		name      string
		areas     []string
		areasFile string
		overlay   string
		overlay4K string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a profile",
		Long: `Create a profile.

Blocked areas are given as left,top,width,height in 1920x1080 coordinates,
either with repeated --area flags or from a scene file whose blocked_areas
are copied (--from-scene).

Overlay guide images are copied next to the profile file; they are only
supported by the file store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rects, err := collectAreas(areas, areasFile)
			if err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(store profile.Store) error {
				p := profile.Profile{ID: profile.NewID(), Name: name, BlockedAreas: rects}
				if overlay != "" || overlay4K != "" {
					fs, ok := store.(*profile.FileStore)
					if !ok {
						return errors.New(errors.ErrCodeUnsupported, "overlay images need the file profile store")
					}
					if p.File1080, err = importOverlay(fs, overlay, p.ID, "1080"); err != nil {
						return err
					}
					if p.File4K, err = importOverlay(fs, overlay4K, p.ID, "4k"); err != nil {
						return err
					}
				}
				created, err := store.Add(cmd.Context(), p)
				if err != nil {
					return err
				}
				printSuccess("Created profile %s", StyleHighlight.Render(created.Name))
				printKeyValue("id", created.ID)
				printKeyValue("areas", strconv.Itoa(len(created.BlockedAreas)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "profile name")
	cmd.Flags().StringArrayVar(&areas, "area", nil, "blocked area as left,top,width,height (repeatable)")
	cmd.Flags().StringVar(&areasFile, "from-scene", "", "copy the blocked areas of a scene file")
	cmd.Flags().StringVar(&overlay, "overlay-1080", "", "1080p overlay guide image")
	cmd.Flags().StringVar(&overlay4K, "overlay-4k", "", "4K overlay guide image")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func importOverlay(fs *profile.FileStore, src, id, suffix string) (string, error) {
	if src == "" {
		return "", nil
	}
	return fs.ImportOverlay(src, id, suffix)
}

// profilesAreasCommand creates the "profiles areas" subcommand.
func (c *CLI) profilesAreasCommand() *cobra.Command {
	var (
		areas     []string
		areasFile string
	)
	cmd := &cobra.Command{
		Use:   "areas <id>",
		Short: "Replace a profile's blocked areas",
		Long: `Replace a profile's blocked areas.

Without --area or --from-scene the profile's areas are cleared.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rects, err := collectAreas(areas, areasFile)
			if err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(store profile.Store) error {
				if err := store.UpdateAreas(cmd.Context(), args[0], rects); err != nil {
					return err
				}
				printSuccess("Updated %s", StyleHighlight.Render(args[0]))
				printKeyValue("areas", strconv.Itoa(len(rects)))
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&areas, "area", nil, "blocked area as left,top,width,height (repeatable)")
	cmd.Flags().StringVar(&areasFile, "from-scene", "", "copy the blocked areas of a scene file")
	return cmd
}

// profilesDeleteCommand creates the "profiles delete" subcommand.
func (c *CLI) profilesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a profile",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(store profile.Store) error {
				if err := store.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Deleted %s", args[0])
				return nil
			})
		},
	}
}

// =============================================================================
// Area Parsing
// =============================================================================

// collectAreas merges --area values with the areas of a scene file.
func collectAreas(flags []string, scenePath string) ([]geom.Rect, error) {
	var out []geom.Rect
	if scenePath != "" {
		s, err := scene.ReadFile(scenePath)
		if err != nil {
			return nil, fmt.Errorf("load scene %s: %w", scenePath, err)
		}
		out = append(out, s.BlockedAreas...)
	}
	for _, f := range flags {
		r, err := parseArea(f)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := profile.ValidateAreas(out); err != nil {
		return nil, err
	}
	return out, nil
}

// parseArea parses "left,top,width,height".
func parseArea(s string) (geom.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geom.Rect{}, errors.New(errors.ErrCodeInvalidInput, "area %q: want left,top,width,height", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geom.Rect{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "area %q", s)
		}
		v[i] = f
	}
	return geom.R(v[0], v[1], v[2], v[3]), nil
}

func formatArea(r geom.Rect) string {
	return fmt.Sprintf("%g,%g %gx%g", r.Left, r.Top, r.Width, r.Height)
}
