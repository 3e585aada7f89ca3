package main

import (
	"context"
	"fmt"

	"github.com/pbanos/grove/tree"
	"github.com/pbanos/grove/tree/json"
	"github.com/pbanos/grove/tree/redisstore"
	"github.com/spf13/cobra"
)

type treeCmdConfig struct {
	*rootCmdConfig
	treeInput string
}

func treeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &treeCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Manage decision trees",
		Long:  `Show decision trees and store them on redis to classify samples with them`,
	}
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree will be read and parsed as JSON")
	cmd.AddCommand(showCmd(config), storeCmd(config))
	return cmd
}

func showCmd(config *treeCmdConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show a tree",
		Long:  `Show a tree read from a JSON file or from redis`,
		Run: func(cmd *cobra.Command, args []string) {
			config.treeInput = config.v.GetString("tree")
			t, err := config.loadTree(config.Context(), config.treeInput)
			if err != nil {
				exit(cmd, 1, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), t)
		},
	}
}

func storeCmd(config *treeCmdConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "store",
		Short: "Store a tree on redis",
		Long:  `Store the tree read from a JSON file on redis and print the ID of its root node`,
		Run: func(cmd *cobra.Command, args []string) {
			config.treeInput = config.v.GetString("tree")
			if config.treeInput == "" {
				exit(cmd, 1, fmt.Errorf("required tree flag was not set"))
			}
			t, err := json.ReadJSONTreeFromFile(config.treeInput)
			if err != nil {
				exit(cmd, 2, err)
			}
			ns, err := config.nodeStore()
			if err != nil {
				exit(cmd, 3, err)
			}
			rootID, err := storeTree(config.Context(), ns, t)
			if err != nil {
				exit(cmd, 4, fmt.Errorf("storing tree: %v", err))
			}
			config.logger.Info().Str("root", rootID).Str("prefix", config.redis.prefix).Msg("tree stored")
			fmt.Fprintln(cmd.OutOrStdout(), rootID)
		},
	}
}

// storeTree saves t on ns and closes ns, returning the ID of the root record
func storeTree(ctx context.Context, ns tree.NodeStore, t *tree.Tree) (string, error) {
	defer ns.Close(ctx)
	return tree.Save(ctx, ns, t.Root)
}

func (rcc *rootCmdConfig) nodeStore() (tree.NodeStore, error) {
	rc, err := rcc.redisClient()
	if err != nil {
		return nil, err
	}
	return redisstore.New(rc, rcc.redis.prefix, json.NewRecordEncodeDecoder()), nil
}

// loadTree reads the tree from the given JSON file, or from redis
// starting at the configured root node when no file is given.
func (rcc *rootCmdConfig) loadTree(ctx context.Context, filepath string) (*tree.Tree, error) {
	if filepath != "" {
		rcc.logger.Debug().Str("tree", filepath).Msg("reading tree")
		return json.ReadJSONTreeFromFile(filepath)
	}
	if rcc.redis.rootID == "" {
		return nil, fmt.Errorf("either the tree flag or the root flag must be set")
	}
	rcc.logger.Debug().Str("root", rcc.redis.rootID).Str("addr", rcc.redis.addr).Msg("loading tree from redis")
	ns, err := rcc.nodeStore()
	if err != nil {
		return nil, err
	}
	defer ns.Close(ctx)
	root, err := tree.Load(ctx, ns, rcc.redis.rootID)
	if err != nil {
		return nil, fmt.Errorf("loading tree from redis: %w", err)
	}
	return tree.New(root, ""), nil
}
