package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/annel0/voxel-world/internal/api"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/go-gl/mathgl/mgl32"
)

const defaultServerAddr = "http://localhost:8090"

func main() {
	var (
		serverAddr = flag.String("server", defaultServerAddr, "Debug API address")
		command    = flag.String("cmd", "stats", "Command: stats, chunks, mesh, observers, add, move, remove")
		chunk      = flag.String("chunk", "0,0,0", "Chunk coordinate for mesh (x,y,z)")
		out        = flag.String("out", "", "Write mesh as Wavefront OBJ to this file (mesh)")
		pos        = flag.String("pos", "0,0,0", "Observer position (x,y,z)")
		id         = flag.String("id", "", "Observer ID (move, remove)")
		radius     = flag.Int("r", world.DefaultRenderDistance, "Render distance in chunks (add)")
		margin     = flag.Int("m", world.DefaultUnloadMargin, "Unload margin in chunks (add)")
		timeout    = flag.Duration("timeout", 10*time.Second, "Request timeout")
	)
	flag.Parse()

	c := &client{base: strings.TrimRight(*serverAddr, "/"), http: &http.Client{Timeout: *timeout}}
	ctx := context.Background()

	var err error
	switch *command {
	case "stats":
		err = c.printJSON(ctx, http.MethodGet, "/api/stats", nil)

	case "chunks":
		err = showChunks(ctx, c)

	case "mesh":
		err = showMesh(ctx, c, *chunk, *out)

	case "observers":
		err = c.printJSON(ctx, http.MethodGet, "/api/observers", nil)

	case "add":
		var p mgl32.Vec3
		if p, err = parseVec3(*pos); err == nil {
			err = c.printJSON(ctx, http.MethodPost, "/api/observers", api.CreateObserverRequest{
				Position:       p,
				RenderDistance: uint32Ptr(*radius),
				UnloadMargin:   uint32Ptr(*margin),
			})
		}

	case "move":
		var p mgl32.Vec3
		if p, err = parseVec3(*pos); err == nil {
			err = c.printJSON(ctx, http.MethodPut, "/api/observers/"+*id, api.MoveObserverRequest{Position: &p})
		}

	case "remove":
		err = c.printJSON(ctx, http.MethodDelete, "/api/observers/"+*id, nil)

	default:
		fmt.Printf("❌ Unknown command: %s\n", *command)
		fmt.Println("Available commands: stats, chunks, mesh, observers, add, move, remove")
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("❌ %s failed: %v", *command, err)
	}
}

type client struct {
	base string
	http *http.Client
}

// do выполняет запрос и разбирает GenericResponse; data получает поле data
func (c *client) do(ctx context.Context, method, path string, body, data interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	envelope := struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response (%s): %w", resp.Status, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s: %s", resp.Status, envelope.Message)
	}
	if data != nil && len(envelope.Data) > 0 {
		return json.Unmarshal(envelope.Data, data)
	}
	return nil
}

func (c *client) printJSON(ctx context.Context, method, path string, body interface{}) error {
	var data json.RawMessage
	if err := c.do(ctx, method, path, body, &data); err != nil {
		return err
	}
	if len(data) == 0 {
		fmt.Println("✅ OK")
		return nil
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		return err
	}
	fmt.Println(pretty.String())
	return nil
}

// showChunks выводит загруженные чанки
func showChunks(ctx context.Context, c *client) error {
	var chunks []world.ChunkInfo
	if err := c.do(ctx, http.MethodGet, "/api/chunks", nil, &chunks); err != nil {
		return err
	}

	fmt.Printf("🧱 Loaded chunks: %d\n", len(chunks))
	for _, ch := range chunks {
		fmt.Printf("  (%d,%d,%d) handle=%s min=%v max=%v\n",
			ch.Coords.X, ch.Coords.Y, ch.Coords.Z, ch.Handle, ch.Bounds.Min, ch.Bounds.Max)
	}
	return nil
}

// showMesh выводит сводку по мешу и при необходимости сохраняет его в OBJ
func showMesh(ctx context.Context, c *client, chunk, out string) error {
	coords, err := parseVec3(chunk)
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/api/chunks/%d/%d/%d/mesh", int(coords[0]), int(coords[1]), int(coords[2]))

	var resp api.ChunkMeshResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return err
	}
	if resp.Mesh == nil {
		resp.Mesh = &world.Mesh{}
	}

	fmt.Printf("🧊 Chunk (%d,%d,%d): %d faces, %d vertices, %d indices\n",
		resp.Coords.X, resp.Coords.Y, resp.Coords.Z,
		resp.Faces, len(resp.Mesh.Positions), len(resp.Mesh.Indices))

	if out == "" {
		return nil
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := writeOBJ(f, resp.Mesh); err != nil {
		return err
	}
	fmt.Printf("💾 Mesh written to %s\n", out)
	return nil
}

// writeOBJ записывает меш в формате Wavefront OBJ (индексы с единицы)
func writeOBJ(w io.Writer, m *world.Mesh) error {
	for _, p := range m.Positions {
		if _, err := fmt.Fprintf(w, "v %g %g %g\n", p[0], p[1], p[2]); err != nil {
			return err
		}
	}
	for _, n := range m.Normals {
		if _, err := fmt.Fprintf(w, "vn %g %g %g\n", n[0], n[1], n[2]); err != nil {
			return err
		}
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i]+1, m.Indices[i+1]+1, m.Indices[i+2]+1
		if _, err := fmt.Fprintf(w, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c); err != nil {
			return err
		}
	}
	return nil
}

// parseVec3 парсит "x,y,z"
func parseVec3(s string) (mgl32.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}

	var v mgl32.Vec3
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("invalid component %q: %w", part, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}

func uint32Ptr(v int) *uint32 {
	u := uint32(v)
	return &u
}
