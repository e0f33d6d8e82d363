package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"OilLens/internal/dashboard"
	"OilLens/internal/model"
	"OilLens/internal/render"
)

var viewCmd = &cobra.Command{
	Use:   "view <command>",
	Short: "Print a dashboard view as a table.",
	Long:  `Print a dashboard view as a table. Run "oillens view list" to see every command.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if args[0] == "list" {
			return listCommands(out)
		}
		req, err := requestFromFlags(args[0], cmd.Flags())
		if err != nil {
			return err
		}
		v, err := runOnce(cmd.Context(), req)
		if err != nil {
			return err
		}
		return render.WriteView(out, v, render.Options{
			UseColors: viper.GetBool("color") && !color.NoColor,
			MaxRows:   viper.GetInt("max-rows"),
		})
	},
}

func init() {
	addRequestFlags(viewCmd.Flags())
	viewCmd.Flags().Int("max-rows", 40, "print only the most recent rows (0 for all)")
	viewCmd.Flags().Bool("color", true, "colorize output")
	_ = viper.BindPFlag("max-rows", viewCmd.Flags().Lookup("max-rows"))
	_ = viper.BindPFlag("color", viewCmd.Flags().Lookup("color"))
}

func addRequestFlags(fs *pflag.FlagSet) {
	fs.String("start", "", "first date, YYYY-MM-DD")
	fs.String("end", "", "last date, YYYY-MM-DD")
	fs.String("windows", "", "moving-average windows, e.g. 7,30,90")
	fs.Int("vol-window", 0, "volatility window in days")
	fs.String("table", "", "geo table: producers, exporters or consumers")
	fs.String("category", "", "events category: decline or rally")
}

func requestFromFlags(name string, fs *pflag.FlagSet) (dashboard.Request, error) {
	cmd, err := dashboard.ParseCommand(name)
	if err != nil {
		return dashboard.Request{}, err
	}
	req := dashboard.Request{Command: cmd}

	start, _ := fs.GetString("start")
	end, _ := fs.GetString("end")
	windows, _ := fs.GetString("windows")
	req.VolWindow, _ = fs.GetInt("vol-window")
	req.Geo, _ = fs.GetString("table")
	category, _ := fs.GetString("category")
	req.Category = model.EventCategory(strings.ToLower(category))

	if req.Start, err = dashboard.ParseDate(start); err != nil {
		return req, err
	}
	if req.End, err = dashboard.ParseDate(end); err != nil {
		return req, err
	}
	if req.Windows, err = dashboard.ParseWindows(windows); err != nil {
		return req, err
	}
	return req, req.Validate()
}

// runOnce loads the configured source and runs one request without
// collaborators or persistence.
func runOnce(ctx context.Context, req dashboard.Request) (*dashboard.View, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	svc := newService(cfg, nil, nil, nil)
	defer svc.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := svc.Reload(ctx); err != nil {
		return nil, err
	}
	return svc.Serve(req, "cli")
}

func listCommands(w io.Writer) error {
	for _, c := range dashboard.Commands() {
		if _, err := fmt.Fprintf(w, "  %-18s %s\n", c, c.Describe()); err != nil {
			return err
		}
	}
	return nil
}

func createOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
