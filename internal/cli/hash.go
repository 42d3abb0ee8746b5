package cli

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idelchi/pathmate/internal/checksum"
	"github.com/idelchi/pathmate/internal/pathmate"
)

func (c *CLI) hashCommand() *cobra.Command {
	var (
		algo   string
		nbytes int64
	)

	cmd := &cobra.Command{
		Use:   "hash <path>...",
		Short: "Print checksums of files or fingerprints of directories",
		Long: heredoc.Doc(`
			Print the checksum of each file, or a fingerprint of each directory that
			changes whenever any file below it changes. --bytes limits file checksums to
			the first N bytes.
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := c.cfg.Algorithm
			if cmd.Flags().Changed("algo") {
				name = algo
			}

			algorithm, err := checksum.Parse(name)
			if err != nil {
				return fmt.Errorf("%w (supported: %v)", err, checksum.Algorithms())
			}

			for _, arg := range args {
				p := pathmate.New(arg)

				var sum string

				if p.IsDir() {
					sum, err = p.DirFingerprint(algorithm)
				} else {
					sum, err = p.Checksum(algorithm, nbytes)
				}

				if err != nil {
					return err
				}

				fmt.Fprintf(c.out, "%s  %s\n", sum, arg)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&algo, "algo", "a", string(checksum.MD5), fmt.Sprintf("Checksum algorithm: one of %v", checksum.Algorithms()))
	cmd.Flags().Int64VarP(&nbytes, "bytes", "b", 0, "Only hash the first N bytes of files (0=all)")

	return cmd
}
