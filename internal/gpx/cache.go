package gpx

import "sync"

// Cache keeps parsed track files so a simulation set that references the
// same GPX source several times only pays the parse cost once.
type Cache struct {
	m      sync.Mutex
	tracks map[string][]Point
}

func NewCache() *Cache {
	return &Cache{tracks: make(map[string][]Point)}
}

// Load returns the points for path, parsing the file on first use.
func (c *Cache) Load(path string) ([]Point, error) {
	if points, ok := c.Get(path); ok {
		return points, nil
	}
	points, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	c.Add(path, points)
	return points, nil
}

func (c *Cache) Get(path string) ([]Point, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	points, ok := c.tracks[path]
	return points, ok
}

func (c *Cache) Add(path string, points []Point) {
	c.m.Lock()
	defer c.m.Unlock()
	c.tracks[path] = points
}

func (c *Cache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.tracks = make(map[string][]Point)
}
