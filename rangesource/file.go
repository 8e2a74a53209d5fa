package rangesource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/vortex-fintech/geophone/phone"
	"github.com/vortex-fintech/geophone/retry"
)

var errEmptyPath = errors.New("rangesource: file path is required")

// File loads a YAML or JSON table from disk.
type File struct {
	Path string
}

func (f File) Name() string { return "file" }

func (f File) Load(ctx context.Context) (phone.Table, error) {
	path := strings.TrimSpace(f.Path)
	if path == "" {
		return nil, retry.Permanent(errEmptyPath)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fh, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, retry.Permanent(fmt.Errorf("rangesource: %w", err))
		}
		return nil, fmt.Errorf("rangesource: %w", err)
	}
	defer fh.Close()

	return Decode(fh)
}
