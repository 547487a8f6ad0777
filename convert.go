package mmtex

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/mmtex/texture"
	"golang.org/x/image/bmp"
)

var errUnknownImageType = errors.New("mmtex: unknown image type")

func (m *MmTex) readTexture(file string) (*texture.Texture, []byte, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, nil, err
	}

	t, err := texture.Decode(bytes.NewReader(b), m.format)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", file, err)
	}

	return t, b, nil
}

func writeTexture(file string, t *texture.Texture) error {
	b := new(bytes.Buffer)
	if err := texture.Encode(b, t); err != nil {
		return err
	}
	return ioutil.WriteFile(file, b.Bytes(), 0644)
}

func readImage(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// bmp registers itself with image.Decode
	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return m, nil
}

func writeImage(file string, m image.Image) error {
	var encode func(*os.File, image.Image) error
	switch strings.ToLower(filepath.Ext(file)) {
	case ".png":
		encode = func(f *os.File, m image.Image) error { return png.Encode(f, m) }
	case ".bmp":
		encode = func(f *os.File, m image.Image) error { return bmp.Encode(f, m) }
	default:
		return fmt.Errorf("%w: %s", errUnknownImageType, file)
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := encode(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Export renders the texture in file to the image out. The type of image
// is chosen by the extension of out, either ".png" or ".bmp".
func (m *MmTex) Export(file, out string) error {
	t, b, err := m.readTexture(file)
	if err != nil {
		return err
	}

	img, err := t.Image()
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	if err := writeImage(out, img); err != nil {
		return err
	}

	path, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	if err := m.catalog.Record(path, b, t); err != nil {
		return err
	}

	m.logger.Printf("Exported \"%s\" to \"%s\"\n", file, out)

	return nil
}

// Import replaces the pixels of the texture in file with the image img,
// mapped onto the texture's existing palette, and writes the result to
// out.
func (m *MmTex) Import(file, img, out string) error {
	t, _, err := m.readTexture(file)
	if err != nil {
		return err
	}

	i, err := readImage(img)
	if err != nil {
		return err
	}

	if err := t.SetImage(i, m.format); err != nil {
		return fmt.Errorf("%s: %w", img, err)
	}

	if err := writeTexture(out, t); err != nil {
		return err
	}

	m.logger.Printf("Imported \"%s\" into \"%s\"\n", img, out)

	return nil
}

// Create builds a new texture from the image img, generating its palette,
// and writes it to out.
func (m *MmTex) Create(img, out string) error {
	i, err := readImage(img)
	if err != nil {
		return err
	}

	t, err := texture.New(i, m.format)
	if err != nil {
		return fmt.Errorf("%s: %w", img, err)
	}

	if err := writeTexture(out, t); err != nil {
		return err
	}

	m.logger.Printf("Created \"%s\" from \"%s\"\n", out, img)

	return nil
}

// Restore writes the contents of file, as they were when it was last
// exported, to out.
func (m *MmTex) Restore(file, out string) error {
	path, err := filepath.Abs(file)
	if err != nil {
		return err
	}

	b, err := m.catalog.Original(path)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(out, b, 0644)
}

// List returns every cataloged texture
func (m *MmTex) List() ([]Entry, error) {
	return m.catalog.List()
}
