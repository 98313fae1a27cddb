package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/cpt-tools/pathcov/pkg/analysis"
)

// csvColumns follow the algorithm tag in every header row.
var csvColumns = []string{
	"valid(T)", "size", "lT",
	"u_edges(T)", "avg(|t|)", "s(T)",
	"eff_edges(T)", "cov_cp_positive(T)",
	"cov_cp_once(T)", "cov_cp_negative(T)",
	"cov_cp_only-once(T)", "cov_edges(T)", "time[ms]",
}

// WriteCSV writes the batch metrics CSV: for each generator, a header
// row tagged with the algorithm name followed by one data row per SUT
// file, blocks separated by an empty record.
func WriteCSV(w io.Writer, results []*analysis.FileResult) error {
	cw := csv.NewWriter(w)
	if len(results) == 0 {
		cw.Flush()
		return cw.Error()
	}
	for genIndex, r := range results[0].Results {
		header := append([]string{r.Generator}, csvColumns...)
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, fr := range results {
			m := fr.Results[genIndex].Report
			row := []string{
				fr.Name,
				strconv.Itoa(m.Valid),
				strconv.Itoa(m.Size),
				strconv.Itoa(m.TotalEdges),
				strconv.Itoa(m.UniqueEdges),
				formatFloat(m.AverageLength),
				formatFloat(m.LengthStdDev),
				formatFloat(m.EdgeEfficiency),
				formatFloat(m.CovPositive),
				formatFloat(m.CovOnce),
				formatFloat(m.CovNegative),
				formatFloat(m.CovMaxOnce),
				formatFloat(m.EdgeCoverage),
				formatFloat(m.TimeMS),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		if genIndex < len(results[0].Results)-1 {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
