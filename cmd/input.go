package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spigell/resume-analyzer/internal/failure"
	"github.com/spigell/resume-analyzer/internal/resume"
)

var stdin io.Reader = os.Stdin

// readProfile loads a profile from "-" (stdin), inline JSON or a file.
func readProfile(ref string) (*resume.Profile, error) {
	ref = strings.TrimSpace(ref)

	var (
		data []byte
		err  error
	)
	switch {
	case ref == "-":
		data, err = io.ReadAll(stdin)
	case strings.HasPrefix(ref, "{"):
		data = []byte(ref)
	case ref == "":
		return nil, failure.NewInputParse("read profile", fmt.Errorf("profile is empty"))
	default:
		data, err = os.ReadFile(ref)
	}
	if err != nil {
		return nil, failure.NewInputParse("read profile", err)
	}

	return resume.DecodeProfile(data)
}
