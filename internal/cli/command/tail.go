package command

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/wsprobe/internal/infra/tailfile"
)

// defaultTailLines is the number of lines tail prints without -n.
const defaultTailLines = 10

func tailCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:      "tail",
		Usage:     "print the last lines of FILE",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "n",
				Value: defaultTailLines,
				Usage: "number of lines to print",
			},
			&cli.BoolFlag{
				Name:    "follow",
				Aliases: []string{"f"},
				Usage:   "keep printing what is appended to the file",
			},
		},
		Action: func(c *cli.Context) error {
			out := r.console("")

			path := c.Args().First()
			if path == "" {
				return runBoundary(out, "", usagef("Missing argument 'FILENAME'."))
			}
			if info, err := os.Stat(path); err != nil || info.IsDir() {
				return runBoundary(out, "", usagef("File '%s' does not exist.", path))
			}
			n := c.Int("n")
			if n < 1 {
				return runBoundary(out, "", usagef("Invalid value for '-n': %d is not in the range x>=1.", n))
			}
			follow := c.Bool("follow")

			return r.supervise(c, out, "", 0, "", func(ctx context.Context) error {
				end, err := printLastLines(out, path, n)
				if err != nil {
					return err
				}
				if !follow {
					return nil
				}
				return tailfile.Follow(ctx, path, end, out, tailfile.DefaultPollInterval)
			})
		},
	}
}

// printLastLines writes the last n lines of path and returns the offset
// they end at. The empty segment after a final line feed is not counted
// as a line.
func printLastLines(w io.Writer, path string, n int) (int64, error) {
	lines, end, err := tailfile.LastLines(path, n+1)
	if err != nil {
		return 0, err
	}
	if k := len(lines); k > 0 && len(lines[k-1]) == 0 {
		lines = lines[:k-1]
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	for _, line := range lines {
		if _, err := w.Write(append(line, '\n')); err != nil {
			return 0, err
		}
	}
	return end, nil
}
