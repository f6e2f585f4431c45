package l4tasks

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/banshee-data/gaze.report/internal/monitoring"
	_ "golang.org/x/image/bmp" // register BMP decoder
)

// ErrNoImages is returned when a directory holds no decodable images.
var ErrNoImages = errors.New("no suitable images found")

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
}

// Brightness returns the RMS luma of img using Rec. 601 weights on 8-bit
// channels. Alpha is ignored.
func Brightness(img image.Image) float64 {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0
	}
	sum := 0.0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			luma := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
			sum += luma * luma
		}
	}
	return math.Sqrt(sum / float64(n))
}

// ImageBrightness decodes the image at path and returns its Brightness.
func ImageBrightness(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return 0, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return Brightness(img), nil
}

// LoadImages lists the supported images in dir sorted darkest first.
// Files that fail to decode are logged and skipped.
func LoadImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	type ranked struct {
		path       string
		brightness float64
	}
	var images []ranked
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		path := filepath.Join(dir, e.Name())
		b, err := ImageBrightness(path)
		if err != nil {
			monitoring.Logf("[image task] skipping %s: %v", path, err)
			continue
		}
		images = append(images, ranked{path: path, brightness: b})
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoImages)
	}

	sort.SliceStable(images, func(i, j int) bool {
		return images[i].brightness < images[j].brightness
	})
	out := make([]string, len(images))
	for i, r := range images {
		out[i] = r.path
	}
	return out, nil
}
