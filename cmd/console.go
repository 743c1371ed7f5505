package cmd

import (
	"io"

	"github.com/ethpandaops/testjson/internal/output"
	"github.com/ethpandaops/testjson/internal/table"
)

func newConsole(w io.Writer) output.Formatter {
	renderer := table.NewRenderer(Logger)

	var resultOpts []table.RenderOption
	if verbose {
		resultOpts = append(resultOpts, table.WithRowLines())
	}

	return output.NewFormatter(
		w,
		verbose,
		table.NewResultsFormatter(Logger, renderer, resultOpts...),
		table.NewSummaryFormatter(Logger, renderer),
	)
}
