package cli

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"midad/internal/domain"
	"midad/internal/service"
)

func newPrefsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change theme and language preferences",
	}

	show := func(cmd *cobra.Command, prefs domain.Preferences) error {
		p, err := opts.printer(cmd)
		if err != nil {
			return err
		}
		return p.print(prefs, func(w io.Writer) { writePreferences(w, prefs) })
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show current preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return show(cmd, a.Preferences.Get(cmd.Context()))
		},
	})

	var theme, lang string
	set := &cobra.Command{
		Use:   "set",
		Short: "Set theme and/or language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := &service.UpdatePreferencesInput{}
			if cmd.Flags().Changed("theme") {
				input.Theme = &theme
			}
			if cmd.Flags().Changed("lang") {
				input.Language = &lang
			}
			if input.Theme == nil && input.Language == nil {
				return errors.New("nothing to set; use --theme and/or --lang")
			}
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			prefs, err := a.Preferences.Update(cmd.Context(), input)
			if err != nil {
				return err
			}
			return show(cmd, prefs)
		},
	}
	set.Flags().StringVar(&theme, "theme", "", "light or dark")
	set.Flags().StringVarP(&lang, "lang", "l", "", "ar, en or fr")
	cmd.AddCommand(set)

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle-theme",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			prefs, err := a.Preferences.ToggleTheme(cmd.Context())
			if err != nil {
				return err
			}
			return show(cmd, prefs)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cycle-language",
		Short: "Move to the next language (ar, en, fr)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			prefs, err := a.Preferences.CycleLanguage(cmd.Context())
			if err != nil {
				return err
			}
			return show(cmd, prefs)
		},
	})

	return cmd
}
