package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"go-account-portal/pkg/apierror"
)

const avatarSize = 128

// AvatarService renders a PNG avatar: the user's initials over their
// favorite color.
type AvatarService struct{}

func NewAvatarService() *AvatarService {
	return &AvatarService{}
}

func (s *AvatarService) Render(firstName string, lastName string, favoriteColor string) ([]byte, error) {
	background, err := parseHexColor(favoriteColor)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, avatarSize, avatarSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	initials := initialsFor(firstName, lastName)
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColorFor(background)),
		Face: basicfont.Face7x13,
	}

	width := drawer.MeasureString(initials)
	drawer.Dot = fixed.Point26_6{
		X: (fixed.I(avatarSize) - width) / 2,
		Y: fixed.I(avatarSize/2 + basicfont.Face7x13.Ascent/2),
	}
	drawer.DrawString(initials)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode avatar: %w", err)
	}

	return buf.Bytes(), nil
}

func initialsFor(firstName string, lastName string) string {
	var b strings.Builder
	for _, name := range []string{firstName, lastName} {
		runes := []rune(strings.TrimSpace(name))
		if len(runes) > 0 {
			b.WriteString(strings.ToUpper(string(runes[0])))
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

func parseHexColor(raw string) (color.RGBA, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) != 7 || trimmed[0] != '#' {
		return color.RGBA{}, apierror.BadRequest("favoriteColor must be a hex color like #RRGGBB", raw)
	}

	value, err := strconv.ParseUint(trimmed[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, apierror.BadRequest("favoriteColor must be a hex color like #RRGGBB", raw)
	}

	return color.RGBA{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
		A: 0xFF,
	}, nil
}

// Dark backgrounds get white initials, light backgrounds black, judged by
// the usual luma weighting.
func textColorFor(background color.RGBA) color.Color {
	luma := 0.299*float64(background.R) + 0.587*float64(background.G) + 0.114*float64(background.B)
	if luma < 128 {
		return color.White
	}
	return color.Black
}
