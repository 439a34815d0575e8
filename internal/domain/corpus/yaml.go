package corpus

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// shootersKey is the top-level list in a corpus file.
const shootersKey = "shooters"

// LoadYAML reads a `shooters:` list from path.
func LoadYAML(path string) (*Corpus, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadCorpus, path, err)
	}
	return fromKoanf(k)
}

// ParseYAML reads a `shooters:` list from raw bytes.
func ParseYAML(b []byte) (*Corpus, error) {
	k := koanf.New(".")
	if err := k.Load(rawBytes(b), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCorpus, err)
	}
	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (*Corpus, error) {
	var refs []ShooterReference
	if err := k.UnmarshalWithConf(shootersKey, &refs, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCorpus, err)
	}
	return New(refs)
}

// rawBytes is a koanf.Provider over an in-memory document.
type rawBytes []byte

func (r rawBytes) ReadBytes() ([]byte, error) { return r, nil }

func (r rawBytes) Read() (map[string]any, error) {
	return nil, fmt.Errorf("rawBytes provider does not support Read")
}
