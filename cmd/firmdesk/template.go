package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tgienger/firmdesk/internal/csvimport"
)

var (
	templateDir    string
	templateStdout bool

	templateCmd = &cobra.Command{
		Use:   "template <entity>",
		Short: "Write a CSV template with the expected headers and one example row.",
		Args:  cobra.ExactArgs(1),
		RunE:  runTemplate,
	}
)

func init() {
	templateCmd.Flags().StringVar(&templateDir, "dir", ".", "Directory to write the template into.")
	templateCmd.Flags().BoolVar(&templateStdout, "stdout", false, "Print the template instead of writing a file.")
}

func runTemplate(cmd *cobra.Command, args []string) error {
	entity, err := csvimport.ParseEntity(args[0])
	if err != nil {
		return err
	}
	s, _ := csvimport.SchemaFor(entity)
	content := csvimport.Template(s) + "\n"

	if templateStdout {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}

	name := filepath.Join(templateDir, csvimport.TemplateFilename(entity, time.Now()))
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		return gerrors.Wrap(err, "write template")
	}
	sess.log.WithFields(logrus.Fields{"entity": entity, "path": name}).Debug("template written")
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", name)
	return nil
}
