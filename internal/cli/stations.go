package cli

import (
	"context"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"eneagramas-site/internal/domain"
)

// NewStationsCmd prints the nine stations.
func NewStationsCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "stations",
		Short: "List the stations of the dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd.Context(), st)
			if err != nil {
				return err
			}
			return renderStations(cmd.OutOrStdout(), ds)
		},
	}
}

func loadDataset(ctx context.Context, st *rootState) (domain.Dataset, error) {
	loader, closeLoader, err := newDatasetLoader(ctx, st.cfg)
	if err != nil {
		return domain.Dataset{}, err
	}
	defer closeLoader()
	return loader.LoadDataset(ctx, st.cfg.Dataset.ID)
}

func renderStations(w io.Writer, ds domain.Dataset) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Slug", "Name", "Enneatype", "Triad", "Wings", "Arrows")
	for _, s := range ds.Stations {
		if err := table.Append([]string{
			strconv.Itoa(s.ID),
			s.Slug,
			s.Name,
			strconv.Itoa(s.Enneatype),
			string(s.Triad),
			strconv.Itoa(s.Wings.Left)+" / "+strconv.Itoa(s.Wings.Right),
			strconv.Itoa(s.Arrows.Integration)+" → "+strconv.Itoa(s.Arrows.Disintegration),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}
