package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/elara/internal/highlight"
	"github.com/jmylchreest/elara/internal/theme"
)

var listThemesOpts struct {
	json bool
}

var listThemesCmd = &cobra.Command{
	Use:   "list-themes",
	Short: "List available themes",
	Long: `List the themes that can be passed to --theme.

User themes in ~/.config/elara/themes come first and shadow bundled themes of
the same name, followed by the chroma built-in styles.`,
	Args: cobra.NoArgs,
	RunE: runListThemes,
}

var themeShowOpts struct {
	css  bool
	json bool
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Inspect themes",
}

var themeShowCmd = &cobra.Command{
	Use:   "show [THEME]",
	Short: "Show the resolved colours of a theme",
	Long: `Resolve a theme and print the colour of every token class.

THEME is a name or a path to a theme file; it defaults to the configured
theme. With --css the token stylesheet embedded in exported documents is
printed instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runThemeShow,
}

func init() {
	rootCmd.AddCommand(listThemesCmd)
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeShowCmd)

	listThemesCmd.Flags().BoolVar(&listThemesOpts.json, "json", false,
		"Output as JSON")
	themeShowCmd.Flags().BoolVar(&themeShowOpts.css, "css", false,
		"Print the token stylesheet")
	themeShowCmd.Flags().BoolVar(&themeShowOpts.json, "json", false,
		"Print the resolved theme as JSON")
}

func runListThemes(cmd *cobra.Command, args []string) error {
	themes := newLoader().ListThemes()

	if listThemesOpts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(themes)
	}

	for _, t := range themes {
		line := t.Name
		switch {
		case t.Path != "":
			line += " " + mutedStyle.Render(t.Path)
		case t.IsBundled:
			line += " " + mutedStyle.Render("(bundled)")
		}
		if t.Name == cfg.Theme.Name || (t.IsDefault && cfg.Theme.Name == "") {
			line = defaultStyle.Render("* ") + line
		} else {
			line = "  " + line
		}
		fmt.Println(line)
	}
	return nil
}

func runThemeShow(cmd *cobra.Command, args []string) error {
	ref := cfg.Theme.Name
	if len(args) == 1 {
		ref = args[0]
	}

	src, err := newLoader().Source(ref)
	if err != nil {
		return err
	}
	hl, err := highlight.NewFromSource(src)
	if err != nil {
		return err
	}
	t := hl.Theme()

	switch {
	case themeShowOpts.css:
		fmt.Print(hl.Styles())
		return nil
	case themeShowOpts.json:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	}

	brightness := "light"
	if t.Dark() {
		brightness = "dark"
	}
	fmt.Println(headerStyle.Render(t.Name), mutedStyle.Render("("+brightness+")"))
	fmt.Println()
	for _, class := range theme.AllTokenClasses() {
		fmt.Printf("  %-20s %s\n", class, swatch(t.Color(class)))
	}
	fmt.Println()
	ui := []struct {
		name  string
		color string
	}{
		{"body background", t.UI.BodyBackground},
		{"body foreground", t.UI.BodyForeground},
		{"code background", t.UI.CodeBackground},
		{"code foreground", t.UI.CodeForeground},
		{"link", t.UI.Link},
		{"link hover", t.UI.LinkHover},
	}
	for _, u := range ui {
		fmt.Printf("  %-20s %s\n", u.name, swatch(u.color))
	}
	return nil
}
