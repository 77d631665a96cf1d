package render

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/snake-solo/memimg"
	"github.com/hoshinonyaruko/snake-solo/snake"
	"github.com/hoshinonyaruko/snake-solo/structs"
)

// Board draws a frame at blockSize pixels per cell. Sprites cached in
// memimg replace the flat colors when present.
func Board(frame structs.Frame, blockSize int) (image.Image, error) {
	st := frame.State
	if st.Width <= 0 || st.Height <= 0 {
		return nil, fmt.Errorf("render: no game to draw")
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("render: invalid block size %d", blockSize)
	}
	canvasWidth := st.Width * blockSize
	canvasHeight := st.Height * blockSize

	dc := gg.NewContext(canvasWidth, canvasHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	renderGrid(dc, canvasWidth, canvasHeight, blockSize)

	for i := 0; i < st.Width*st.Height; i++ {
		if snake.IsWall(i, st.Width, st.Height) {
			drawCell(dc, i, st.Width, blockSize, memimg.SpriteWall, 0.25, 0.25, 0.3)
		}
	}
	if st.Status != structs.StatusWon && st.Food >= 0 {
		drawCell(dc, st.Food, st.Width, blockSize, memimg.SpriteFood, 0.9, 0.2, 0.2)
	}
	for n, i := range st.Snake {
		if n == len(st.Snake)-1 {
			drawCell(dc, i, st.Width, blockSize, memimg.SpriteHead, 0.1, 0.5, 0.1)
			continue
		}
		drawCell(dc, i, st.Width, blockSize, memimg.SpriteBody, 0.3, 0.75, 0.3)
	}

	if !st.Status.Terminal() {
		return dc.Image(), nil
	}

	// 结束时模糊棋盘并写上分数
	over := gg.NewContextForImage(imaging.Blur(dc.Image(), 3.5))
	over.SetRGBA(0, 0, 0, 0.45)
	over.DrawRectangle(0, 0, float64(canvasWidth), float64(canvasHeight))
	over.Fill()
	title := "GAME OVER"
	if st.Status == structs.StatusWon {
		title = "YOU WIN"
	}
	cx, cy := float64(canvasWidth)/2, float64(canvasHeight)/2
	over.SetRGB(1, 1, 1)
	over.DrawStringAnchored(title, cx, cy-10, 0.5, 0.5)
	over.DrawStringAnchored(fmt.Sprintf("score %d  best %d", st.Score, frame.HighScore), cx, cy+10, 0.5, 0.5)
	return over.Image(), nil
}

func drawCell(dc *gg.Context, i, width, blockSize int, sprite string, r, g, b float64) {
	x, y := (i%width)*blockSize, (i/width)*blockSize
	if img, found := memimg.GetSprite(sprite); found {
		dc.DrawImage(img, x, y)
		return
	}
	dc.SetRGB(r, g, b)
	dc.DrawRectangle(float64(x), float64(y), float64(blockSize), float64(blockSize))
	dc.Fill()
}

func renderGrid(dc *gg.Context, width, height, blockSize int) {
	dc.SetRGB(0.9, 0.9, 0.9)
	for x := 0; x <= width; x += blockSize {
		dc.DrawLine(float64(x), 0, float64(x), float64(height))
		dc.Stroke()
	}
	for y := 0; y <= height; y += blockSize {
		dc.DrawLine(0, float64(y), float64(width), float64(y))
		dc.Stroke()
	}
}

// SavePNG renders the frame to fileName, creating parent directories.
func SavePNG(fileName string, frame structs.Frame, blockSize int) error {
	img, err := Board(frame, blockSize)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fileName), os.ModePerm); err != nil {
		return err
	}
	return gg.SavePNG(fileName, img)
}

// EncodePNG renders the frame as PNG into w.
func EncodePNG(w io.Writer, frame structs.Frame, blockSize int) error {
	img, err := Board(frame, blockSize)
	if err != nil {
		return err
	}
	return gg.NewContextForImage(img).EncodePNG(w)
}
