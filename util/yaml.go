package util

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ReadFromYAMLFile decodes the YAML document in fn into data. Keys that do
// not correspond to a field of data are rejected.
func ReadFromYAMLFile(fn string, data interface{}) error {
	if _, err := os.Stat(fn); os.IsNotExist(err) {
		return errors.Errorf("file '%s' does not exist", fn)
	}

	contents, err := os.ReadFile(fn)
	if err != nil {
		return errors.Wrapf(err, "reading file '%s'", fn)
	}

	return errors.Wrapf(UnmarshalYAMLStrict(contents, data), "reading YAML from '%s'", fn)
}

// UnmarshalYAMLStrict is yaml.Unmarshal with unknown fields treated as
// errors. An empty document leaves data untouched.
func UnmarshalYAMLStrict(in []byte, data interface{}) error {
	if len(bytes.TrimSpace(in)) == 0 {
		return nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(in))
	dec.KnownFields(true)

	return errors.WithStack(dec.Decode(data))
}
