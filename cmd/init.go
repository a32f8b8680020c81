package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/grove/internal/scaffold"
)

var (
	initForce   bool
	initName    string
	initEnv     []string
	initEnvFile string
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write the sandbox descriptor",
	Long: `Writes the .devcontainer directory the sandbox is built from into dir
(default: the current directory): a Dockerfile, devcontainer.json, the
firewall script and an .env file.

--env adds KEY=VALUE lines to .env; --env-file copies a file instead. An
existing descriptor is only replaced with --force.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Replace an existing descriptor")
	initCmd.Flags().StringVar(&initName, "name", "", "Sandbox name (default from configuration)")
	initCmd.Flags().StringArrayVarP(&initEnv, "env", "e", nil, "Environment variable for the sandbox (KEY=VALUE, repeatable)")
	initCmd.Flags().StringVar(&initEnvFile, "env-file", "", "File copied to .env")
	initCmd.MarkFlagsMutuallyExclusive("env", "env-file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := sandboxDir(args)
	if err != nil {
		return err
	}
	s, err := openDir(cmd, dir)
	if err != nil {
		return err
	}

	name := initName
	if name == "" {
		name = s.cfg.Sandbox.Name
	}

	result, err := scaffold.Write(dir, scaffold.Options{
		Name:    name,
		Workdir: s.cfg.Sandbox.Workdir,
		Force:   initForce,
		Env:     initEnv,
		EnvFile: initEnvFile,
	})
	if err != nil {
		return err
	}

	logSuccess("Wrote %s", result.Dir)
	for _, f := range result.Files {
		logInfo("  %s", f)
	}
	if result.LocalhostEnv {
		logWarning("An env value points at localhost, which inside the sandbox is the container itself; use host.docker.internal to reach the host")
	}
	return nil
}
