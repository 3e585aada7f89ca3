package main

import (
	"context"
	"fmt"
	"io"

	"github.com/pbanos/grove/likelihood"
	"github.com/pbanos/grove/likelihood/csv"
	"github.com/pbanos/grove/likelihood/sqlset"
	"github.com/pbanos/grove/likelihood/sqlset/pgadapter"
	"github.com/pbanos/grove/likelihood/sqlset/sqlite3adapter"
	"github.com/spf13/cobra"
)

type likelihoodCmdConfig struct {
	*rootCmdConfig
	features    []float64
	labels      []int
	csvInput    string
	sqliteInput string
	pgInput     string
	query       sqlset.Query
}

func likelihoodCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &likelihoodCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "likelihood",
		Short: "Score labelled samples under a logistic link",
		Long:  `Compute the likelihood and the log-likelihood derivative of a set of samples of a feature labelled -1 or +1`,
		Run: func(cmd *cobra.Command, args []string) {
			config.loadFlags()
			err := config.Validate()
			if err != nil {
				exit(cmd, 1, err)
			}
			s, err := config.samples(config.Context())
			if err != nil {
				exit(cmd, 2, err)
			}
			err = config.score(s, cmd.OutOrStdout())
			if err != nil {
				exit(cmd, 3, err)
			}
		},
	}
	cmd.Flags().Float64SliceVarP(&(config.features), "features", "x", nil, "comma-separated features of the samples")
	cmd.Flags().IntSliceVarP(&(config.labels), "labels", "y", nil, "comma-separated labels (-1 or 1) of the samples")
	cmd.Flags().StringVar(&(config.csvInput), "csv", "", "path to a CSV file with a feature and a label column to read samples from")
	cmd.Flags().StringVar(&(config.sqliteInput), "sqlite", "", "path to a SQLite3 database file to read samples from")
	cmd.Flags().StringVar(&(config.pgInput), "postgres", "", "URL of a PostgreSQL database to read samples from")
	cmd.Flags().StringVar(&(config.query.Table), "table", "samples", "database table to read samples from")
	cmd.Flags().StringVar(&(config.query.FeatureColumn), "feature-column", "feature", "database column with the features of the samples")
	cmd.Flags().StringVar(&(config.query.LabelColumn), "label-column", "label", "database column with the labels of the samples")
	cmd.Flags().StringVar(&(config.query.OrderColumn), "order-column", "", "database column to sort samples by")
	return cmd
}

func (lcc *likelihoodCmdConfig) loadFlags() {
	v := lcc.v
	lcc.csvInput = v.GetString("csv")
	lcc.sqliteInput = v.GetString("sqlite")
	lcc.pgInput = v.GetString("postgres")
	lcc.query.Table = v.GetString("table")
	lcc.query.FeatureColumn = v.GetString("feature-column")
	lcc.query.LabelColumn = v.GetString("label-column")
	lcc.query.OrderColumn = v.GetString("order-column")
}

func (lcc *likelihoodCmdConfig) Validate() error {
	var sources int
	if len(lcc.features) > 0 || len(lcc.labels) > 0 {
		sources++
	}
	for _, input := range []string{lcc.csvInput, lcc.sqliteInput, lcc.pgInput} {
		if input != "" {
			sources++
		}
	}
	if sources != 1 {
		return fmt.Errorf("exactly one of features and labels, csv, sqlite or postgres flags must be set")
	}
	return nil
}

func (lcc *likelihoodCmdConfig) samples(ctx context.Context) (*likelihood.Samples, error) {
	switch {
	case lcc.csvInput != "":
		lcc.logger.Debug().Str("csv", lcc.csvInput).Msg("reading samples")
		return csv.ReadSamplesFromFilePath(lcc.csvInput)
	case lcc.sqliteInput != "":
		lcc.logger.Debug().Str("sqlite", lcc.sqliteInput).Str("table", lcc.query.Table).Msg("reading samples")
		a, err := sqlite3adapter.New(lcc.sqliteInput)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite3 database %s: %v", lcc.sqliteInput, err)
		}
		defer a.Close()
		return sqlset.ReadSamples(ctx, a, &lcc.query)
	case lcc.pgInput != "":
		lcc.logger.Debug().Str("table", lcc.query.Table).Msg("reading samples from postgres")
		a, err := pgadapter.New(lcc.pgInput)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres database: %v", err)
		}
		defer a.Close()
		return sqlset.ReadSamples(ctx, a, &lcc.query)
	}
	return likelihood.NewSamples(lcc.features, lcc.labels)
}

func (lcc *likelihoodCmdConfig) score(s *likelihood.Samples, w io.Writer) error {
	lcc.logger.Debug().Int("samples", s.Len()).Msg("scoring samples")
	for _, term := range likelihood.Terms(s) {
		lcc.logger.Debug().
			Float64("x", term.Feature).
			Float64("y", term.Indicator).
			Float64("p", term.Probability).
			Float64("v", term.Value).
			Msg("log-likelihood term")
	}
	_, err := fmt.Fprintf(w, "likelihood: %v\nlog-likelihood: %v\n", likelihood.Likelihood(s), likelihood.LogLikelihood(s))
	return err
}
