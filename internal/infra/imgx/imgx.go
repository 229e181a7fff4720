package imgx

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Exts 是支持读写的图片扩展名（小写，带点）。
var Exts = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif"}

// JPEGQuality 在体积与质量之间比较均衡。
const JPEGQuality = 95

// IsImageExt 判断扩展名（大小写不敏感）是否为支持的图片格式。
func IsImageExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range Exts {
		if e == ext {
			return true
		}
	}
	return false
}

// DecodeFile 读取并解码图片文件，返回图片与格式名（png/jpeg/gif/bmp）。
// GIF 只取第一帧。
func DecodeFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", err
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, "", errors.New("图片尺寸无效")
	}
	return img, format, nil
}

// Resize 使用 Catmull-Rom 插值把 src 缩放到 w×h。
func Resize(src image.Image, w, h int) (*image.RGBA, error) {
	if src == nil {
		return nil, errors.New("图片为空")
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("目标尺寸无效：%dx%d", w, h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// EncodeForName 按文件名扩展名选择编码器，把 img 编码为字节。
func EncodeForName(name string, img image.Image) ([]byte, error) {
	var out bytes.Buffer
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		err = png.Encode(&out, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(&out, img, &jpeg.Options{Quality: JPEGQuality})
	case ".gif":
		err = gif.Encode(&out, img, &gif.Options{NumColors: 256})
	case ".bmp":
		err = bmp.Encode(&out, img)
	default:
		return nil, fmt.Errorf("不支持的图片格式：%q", name)
	}
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
