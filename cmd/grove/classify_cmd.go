package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/feature/yaml"
	"github.com/pbanos/grove/tree"
	"github.com/spf13/cobra"
)

type classifyCmdConfig struct {
	*rootCmdConfig
	treeInput   string
	sampleInput string
	values      []string
	annotate    bool
	maxDepth    int
}

func classifyCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &classifyCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a sample with a decision tree",
		Long:  `Walk a binary decision tree with a sample's feature values and print the prediction of the leaf reached`,
		Run: func(cmd *cobra.Command, args []string) {
			config.loadFlags()
			err := config.Validate()
			if err != nil {
				exit(cmd, 1, err)
			}
			sample, err := config.sample()
			if err != nil {
				exit(cmd, 2, err)
			}
			t, err := config.loadTree(config.Context(), config.treeInput)
			if err != nil {
				exit(cmd, 3, err)
			}
			opts := []tree.ClassifyOption{tree.MaxDepth(config.maxDepth)}
			if config.annotate {
				opts = append(opts, tree.Annotate(tree.LogTracer(config.logger)))
			}
			prediction, err := t.Classify(config.Context(), sample, opts...)
			if err != nil {
				exit(cmd, 4, fmt.Errorf("classifying sample %v: %w", sample, err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), prediction)
		},
	}
	cmd.Flags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree will be read and parsed as JSON (the tree is loaded from redis if not set)")
	cmd.Flags().StringVarP(&(config.sampleInput), "sample", "s", "", "path to a YML file with the feature values of the sample")
	cmd.Flags().StringArrayVar(&(config.values), "value", nil, "feature value of the sample as name=value (repeatable, overrides values in the sample file)")
	cmd.Flags().BoolVarP(&(config.annotate), "annotate", "a", false, "log every step taken through the tree")
	cmd.Flags().IntVar(&(config.maxDepth), "max-depth", tree.DefaultMaxDepth, "maximum number of splits a sample may go through")
	return cmd
}

func (ccc *classifyCmdConfig) loadFlags() {
	v := ccc.v
	ccc.treeInput = v.GetString("tree")
	ccc.sampleInput = v.GetString("sample")
	ccc.annotate = v.GetBool("annotate")
	ccc.maxDepth = v.GetInt("max-depth")
}

func (ccc *classifyCmdConfig) Validate() error {
	if ccc.sampleInput == "" && len(ccc.values) == 0 {
		return fmt.Errorf("at least one of sample or value flags must be set")
	}
	if ccc.treeInput == "" && ccc.redis.rootID == "" {
		return fmt.Errorf("either the tree flag or the root flag must be set")
	}
	return nil
}

func (ccc *classifyCmdConfig) sample() (feature.Vector, error) {
	s := feature.Vector{}
	if ccc.sampleInput != "" {
		var err error
		s, err = yaml.ReadVectorFromFile(ccc.sampleInput)
		if err != nil {
			return nil, err
		}
	}
	values, err := parseValues(ccc.values)
	if err != nil {
		return nil, err
	}
	for name, value := range values {
		s[name] = value
	}
	return s, nil
}

// parseValues parses name=value pairs into a feature.Vector
func parseValues(pairs []string) (feature.Vector, error) {
	v := make(feature.Vector, len(pairs))
	for _, pair := range pairs {
		i := strings.LastIndex(pair, "=")
		if i <= 0 {
			return nil, fmt.Errorf("invalid feature value %q: expected name=value", pair)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(pair[i+1:]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid feature value %q: %v", pair, err)
		}
		v[strings.TrimSpace(pair[:i])] = value
	}
	return v, nil
}
