package ingest

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

// ReadRaw loads the report declared by src. A missing file is not an error:
// it yields empty content, which parses to the empty result, so one absent
// CI artifact does not abort a batch. Files ending in .gz or .xz are
// decompressed.
func ReadRaw(src Source) (api.RawReport, error) {
	raw := api.RawReport{
		Framework:  src.Framework,
		TestType:   src.TestType,
		SourcePath: src.Path,
	}

	data, err := os.ReadFile(src.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.WithField("path", src.Path).Warnf("report file not found, using empty result for %s", src.Framework)
			raw.Content = []byte{}
			return raw, nil
		}
		return raw, errors.Wrapf(err, "unable to read report %s", src.Path)
	}

	raw.Content, err = decompress(src.Path, data)
	if err != nil {
		return raw, errors.Wrapf(err, "unable to decompress report %s", src.Path)
	}
	return raw, nil
}

func decompress(path string, data []byte) ([]byte, error) {
	var (
		r   io.Reader
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gzr, gerr := gzip.NewReader(bytes.NewReader(data))
		if gerr != nil {
			return nil, gerr
		}
		defer gzr.Close()
		r = gzr
	case ".xz":
		r, err = xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
	default:
		return data, nil
	}
	return io.ReadAll(r)
}
