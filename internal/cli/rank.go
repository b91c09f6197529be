package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"eneagramas-site/internal/domain"
	"eneagramas-site/internal/scoring"
)

// NewRankCmd scores an answer set from the command line.
func NewRankCmd(st *rootState) *cobra.Command {
	var (
		answers string
		topK    int
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank stations for a set of answers",
		Example: `  eneagramas rank --answers "1;1;1;1,4;9"
  eneagramas rank --answers "2;;5" --top 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := parseAnswers(answers)
			if err != nil {
				return err
			}
			k := st.cfg.Scoring.TopK
			if cmd.Flags().Changed("top") {
				k = topK
			}
			ds, err := loadDataset(cmd.Context(), st)
			if err != nil {
				return err
			}
			ranked, err := scoring.NewEngine(ds.Stations, k).Rank(records, k)
			if err != nil {
				return err
			}
			return renderRanking(cmd.OutOrStdout(), ranked)
		},
	}
	cmd.Flags().StringVar(&answers, "answers", "", `answers separated by ";", station ids within one answer by ","`)
	cmd.Flags().IntVar(&topK, "top", scoring.DefaultTopK, "number of stations to recommend")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

// parseAnswers reads "1;1;1;1,4;9". An empty segment is a skipped question.
func parseAnswers(raw string) ([]domain.AnswerRecord, error) {
	segments := strings.Split(raw, ";")
	out := make([]domain.AnswerRecord, 0, len(segments))
	for i, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			out = append(out, nil)
			continue
		}
		var record domain.AnswerRecord
		for _, field := range strings.Split(seg, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, fmt.Errorf("answer %d: invalid station id %q", i+1, field)
			}
			record = append(record, id)
		}
		out = append(out, record)
	}
	return out, nil
}

func renderRanking(w io.Writer, ranked []domain.RankedStation) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", "ID", "Station", "Essence", "Count")
	for i, r := range ranked {
		if err := table.Append([]string{
			strconv.Itoa(i+1),
			strconv.Itoa(r.Station.ID),
			r.Station.Name,
			r.Station.Essence,
			strconv.Itoa(r.Count),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}
