package screen

// ImageData holds decoded RGBA pixel data for one stored image.
type ImageData struct {
	ID            uint32
	Width, Height int
	Pixels        []byte // RGBA, row-major, len == Width*Height*4
}

func (img *ImageData) memSize() int { return len(img.Pixels) }

// CellImage is the per-cell reference into an ImagePool entry: which image,
// and which texel rectangle (in normalized UV coordinates) this cell shows.
type CellImage struct {
	ImageID    uint32
	U0, V0     float32
	U1, V1     float32
}

// ImagePlacement records where a decoded image was placed on the grid.
type ImagePlacement struct {
	ImageID    uint32
	Row, Col   int
	Rows, Cols int
}

// ImagePool owns decoded images (from Sixel or Kitty graphics
// sequences) and enforces a memory budget, evicting the oldest image when
// a new one would exceed it.
type ImagePool struct {
	nextID     uint32
	images     map[uint32]*ImageData
	order      []uint32 // insertion order, for LRU-ish eviction
	placements []ImagePlacement
	maxMemory  int
	used       int
}

// NewImagePool creates a pool with the given memory budget in bytes. A
// budget of 0 means unlimited.
func NewImagePool(maxMemory int) *ImagePool {
	return &ImagePool{images: make(map[uint32]*ImageData), maxMemory: maxMemory}
}

// Store adds a decoded image, assigning it the next monotonic ID, evicting
// older images if needed to stay within the memory budget.
func (p *ImagePool) Store(width, height int, pixels []byte) *ImageData {
	p.nextID++
	img := &ImageData{ID: p.nextID, Width: width, Height: height, Pixels: pixels}
	p.evictToFit(img.memSize())
	p.images[img.ID] = img
	p.order = append(p.order, img.ID)
	p.used += img.memSize()
	return img
}

func (p *ImagePool) evictToFit(incoming int) {
	if p.maxMemory <= 0 {
		return
	}
	for p.used+incoming > p.maxMemory && len(p.order) > 0 {
		oldest := p.order[0]
		p.order = p.order[1:]
		if img, ok := p.images[oldest]; ok {
			p.used -= img.memSize()
			delete(p.images, oldest)
		}
	}
}

func (p *ImagePool) Get(id uint32) *ImageData { return p.images[id] }

func (p *ImagePool) SetMaxMemory(n int) {
	p.maxMemory = n
	p.evictToFit(0)
}

func (p *ImagePool) RecordPlacement(pl ImagePlacement) {
	p.placements = append(p.placements, pl)
}

func (p *ImagePool) Placements() []ImagePlacement {
	out := make([]ImagePlacement, len(p.placements))
	copy(out, p.placements)
	return out
}

// ClearPlacements drops all recorded placements without evicting the
// stored image data (Kitty's d=a delete-visible-only semantics).
func (p *ImagePool) ClearPlacements() {
	p.placements = nil
}
