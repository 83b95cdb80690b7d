// Package raylib paints fastimage render plans with raylib. The painter owns
// GPU residency: one texture per source key, uploaded lazily the first time a
// visual is drawn and kept until Unload or Close.
//
// Raylib is not thread safe; every method here must run on the render
// thread, after the window is initialized.
package raylib

import (
	"context"
	"log"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kryonlabs/kryon-fastimage/fastimage"
)

// Fetcher supplies encoded payloads for remote visuals out of the image
// engine's caches, typically a *pipeline.Engine. Fetch returns the bytes and
// the container format ("png", "jpeg", "gif").
type Fetcher interface {
	Fetch(ctx context.Context, req fastimage.Request) ([]byte, string, error)
}

// Painter turns RenderPlans into raylib draw calls.
type Painter struct {
	fetcher  Fetcher
	textures map[string]rl.Texture2D
	// failed remembers keys whose payload would not decode or upload so a
	// bad image does not retry every frame. Unload clears the mark.
	failed map[string]bool
}

// NewPainter builds a Painter over fetcher. fetcher may be nil when only
// local assets are drawn.
func NewPainter(fetcher Fetcher) *Painter {
	return &Painter{
		fetcher:  fetcher,
		textures: make(map[string]rl.Texture2D),
		failed:   make(map[string]bool),
	}
}

// Draw paints plan with its top-left corner at (x, y). The background fill
// and borders go down first, then the visual is scissored into its box. In
// background mode the visual spans the full outer box, so the borders are
// repainted above it and the caller draws children into the content box
// afterwards.
func (p *Painter) Draw(plan fastimage.RenderPlan, x, y float64) {
	if !plan.Box.IsRenderable() {
		return
	}
	boxX, boxY := int32(x), int32(y)
	boxW, boxH := int32(plan.Box.W), int32(plan.Box.H)

	if bg := plan.Style.Background; !bg.Transparent() {
		rl.DrawRectangle(boxX, boxY, boxW, boxH, toRL(bg))
	}

	in := plan.Style.Borders
	top, bottom := clampOpposingBorders(int(in.Top), int(in.Bottom), int(boxH))
	left, right := clampOpposingBorders(int(in.Left), int(in.Right), int(boxW))
	borderColor := toRL(plan.Style.BorderColor)
	drawBorders(int(boxX), int(boxY), int(boxW), int(boxH), top, right, bottom, left, borderColor)

	tex, ok := p.textureFor(plan)
	if !ok {
		return
	}

	imageX, imageY := x, y
	imageBox := plan.ImageBox()
	if !plan.Background {
		imageX += in.Left
		imageY += in.Top
	}
	src, dst := fastimage.FitRect(plan.ResizeMode, int(tex.Width), int(tex.Height), imageBox)
	if src.IsEmpty() || dst.IsEmpty() {
		return
	}

	scissorW, scissorH := int32(imageBox.W), int32(imageBox.H)
	if scissorW <= 0 || scissorH <= 0 {
		return
	}
	rl.BeginScissorMode(int32(imageX), int32(imageY), scissorW, scissorH)
	rl.DrawTexturePro(tex,
		rl.NewRectangle(float32(src.X), float32(src.Y), float32(src.W), float32(src.H)),
		rl.NewRectangle(float32(imageX+dst.X), float32(imageY+dst.Y), float32(dst.W), float32(dst.H)),
		rl.NewVector2(0, 0), 0, rl.White)
	rl.EndScissorMode()

	if plan.Background {
		// The visual just covered the border band; put the frame back on top.
		drawBorders(int(boxX), int(boxY), int(boxW), int(boxH), top, right, bottom, left, borderColor)
	}
}

// textureFor resolves the plan's visual to a resident texture, uploading on
// first use. Remote visuals wait for StateLoaded so the payload is already
// in the engine's caches and the fetch cannot block on the network.
func (p *Painter) textureFor(plan fastimage.RenderPlan) (rl.Texture2D, bool) {
	switch visual := plan.Visual.(type) {
	case fastimage.VisualRemote:
		if plan.State != fastimage.StateLoaded || p.fetcher == nil {
			return rl.Texture2D{}, false
		}
		return p.remoteTexture(visual.Request)
	case fastimage.VisualLocal:
		return p.assetTexture(visual.Asset)
	case fastimage.VisualFallback:
		return p.assetTexture(visual.Asset)
	case fastimage.VisualPlaceholder:
		return p.assetTexture(fastimage.Placeholder())
	default:
		return rl.Texture2D{}, false
	}
}

func (p *Painter) remoteTexture(req fastimage.Request) (rl.Texture2D, bool) {
	key := req.URI
	if tex, ok := p.textures[key]; ok {
		return tex, true
	}
	if p.failed[key] {
		return rl.Texture2D{}, false
	}
	data, format, err := p.fetcher.Fetch(context.Background(), req)
	if err != nil {
		log.Printf("Error remoteTexture: fetch for %s failed: %v", key, err)
		p.failed[key] = true
		return rl.Texture2D{}, false
	}
	return p.uploadBytes(key, data, formatExt(format))
}

func (p *Painter) assetTexture(asset fastimage.Asset) (rl.Texture2D, bool) {
	key := asset.Key()
	if tex, ok := p.textures[key]; ok {
		return tex, true
	}
	if p.failed[key] {
		return rl.Texture2D{}, false
	}
	if len(asset.Data) > 0 {
		return p.uploadBytes(key, asset.Data, assetExt(asset))
	}
	if asset.Path == "" {
		p.failed[key] = true
		return rl.Texture2D{}, false
	}

	img := rl.LoadImage(asset.Path)
	if img.Data == nil || img.Width == 0 || img.Height == 0 {
		log.Printf("Error assetTexture: failed to load image data from %s", asset.Path)
		rl.UnloadImage(img)
		p.failed[key] = true
		return rl.Texture2D{}, false
	}
	return p.uploadImage(key, img)
}

func (p *Painter) uploadBytes(key string, data []byte, ext string) (rl.Texture2D, bool) {
	img := rl.LoadImageFromMemory(ext, data, int32(len(data)))
	if img.Data == nil || img.Width == 0 || img.Height == 0 {
		log.Printf("Error uploadBytes: failed to decode image data for %s (ext %s, %d bytes)", key, ext, len(data))
		rl.UnloadImage(img)
		p.failed[key] = true
		return rl.Texture2D{}, false
	}
	return p.uploadImage(key, img)
}

func (p *Painter) uploadImage(key string, img *rl.Image) (rl.Texture2D, bool) {
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	if tex.ID == 0 {
		log.Printf("Error uploadImage: failed to create texture for %s", key)
		p.failed[key] = true
		return rl.Texture2D{}, false
	}
	p.textures[key] = tex
	return tex, true
}

// Unload drops the texture for src, freeing GPU memory and clearing any
// failure mark so the next draw retries.
func (p *Painter) Unload(src fastimage.Source) {
	p.unloadKey(src.Key())
}

// UnloadAsset drops the texture for a standalone asset (fallbacks, the
// placeholder).
func (p *Painter) UnloadAsset(asset fastimage.Asset) {
	p.unloadKey(asset.Key())
}

func (p *Painter) unloadKey(key string) {
	if tex, ok := p.textures[key]; ok && tex.ID > 0 {
		rl.UnloadTexture(tex)
	}
	delete(p.textures, key)
	delete(p.failed, key)
}

// TextureCount reports how many textures are resident.
func (p *Painter) TextureCount() int {
	return len(p.textures)
}

// Close unloads every resident texture. The painter stays usable; textures
// re-upload on the next draw.
func (p *Painter) Close() {
	unloaded := 0
	for key, tex := range p.textures {
		if tex.ID > 0 {
			rl.UnloadTexture(tex)
			unloaded++
		}
		delete(p.textures, key)
	}
	clear(p.failed)
	log.Printf("Painter Close: unloaded %d textures from cache.", unloaded)
}

func toRL(c fastimage.Color) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

// formatExt maps a sniffed container format to the extension hint raylib's
// decoder expects.
func formatExt(format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "":
		return ".png"
	default:
		return "." + format
	}
}

func assetExt(asset fastimage.Asset) string {
	if ext := filepath.Ext(asset.Name); ext != "" {
		return ext
	}
	if ext := filepath.Ext(asset.Path); ext != "" {
		return ext
	}
	return ".png"
}

func drawBorders(x, y, w, h, top, right, bottom, left int, color rl.Color) {
	if color.A == 0 {
		return
	}
	if top > 0 {
		rl.DrawRectangle(int32(x), int32(y), int32(w), int32(top), color)
	}
	if bottom > 0 {
		rl.DrawRectangle(int32(x), int32(y+h-bottom), int32(w), int32(bottom), color)
	}
	sideY := y + top
	sideH := h - top - bottom
	if sideH > 0 {
		if left > 0 {
			rl.DrawRectangle(int32(x), int32(sideY), int32(left), int32(sideH), color)
		}
		if right > 0 {
			rl.DrawRectangle(int32(x+w-right), int32(sideY), int32(right), int32(sideH), color)
		}
	}
}

// clampOpposingBorders keeps two opposing border widths from crossing inside
// a box of totalSize, shrinking them proportionally when they would.
func clampOpposingBorders(borderA, borderB, totalSize int) (int, int) {
	if totalSize <= 0 {
		return 0, 0
	}
	if borderA < 0 {
		borderA = 0
	}
	if borderB < 0 {
		borderB = 0
	}
	if borderA+borderB > totalSize {
		sum := float32(borderA + borderB)
		borderA = int(float32(borderA) / sum * float32(totalSize))
		borderB = totalSize - borderA
	}
	return borderA, borderB
}
