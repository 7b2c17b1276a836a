package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rc397/FlavorMap/internal/geo"
	"github.com/rc397/FlavorMap/internal/service"
)

// Export formats.
const (
	FormatGeoJSON = "geojson"
	FormatJSON    = "json"
)

// createFile opens the --out target; tests replace it.
var createFile = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

type exportOptions struct {
	format string
	out    string
}

// NewExportCommand creates the export command, which writes every stored spot
// as GeoJSON or as the API's JSON list.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:          "export",
		Short:        "Write all spots as GeoJSON or JSON",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", FormatGeoJSON, "output format (geojson|json)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (default stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, rootOpts *RootOptions, opts *exportOptions) error {
	if opts.format != FormatGeoJSON && opts.format != FormatJSON {
		return fmt.Errorf("invalid format %q: must be %q or %q", opts.format, FormatGeoJSON, FormatJSON)
	}

	app, err := loadApp(cmd.Context(), rootOpts)
	if err != nil {
		return err
	}
	defer app.Close()

	spots, err := service.NewSpotService(app.Store).List(cmd.Context())
	if err != nil {
		return err
	}

	var data []byte
	switch opts.format {
	case FormatGeoJSON:
		data, err = geo.Marshal(spots)
	default:
		data, err = json.MarshalIndent(map[string]any{"spots": spots}, "", "  ")
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if opts.out == "" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		return nil
	}

	f, err := createFile(opts.out)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.out, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write export: %w", err)
	}
	// A failed close can mean the data never reached disk.
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", opts.out, err)
	}
	return nil
}
