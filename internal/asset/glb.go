// Package asset 负责角色模型的异步加载与 glTF 二进制容器解析
package asset

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

const (
	glbMagic        = 0x46546C67 // "glTF"
	glbVersion      = 2
	glbHeaderSize   = 12
	chunkHeaderSize = 8

	chunkTypeJSON = 0x4E4F534A // "JSON"
	chunkTypeBIN  = 0x004E4942 // "BIN\0"
)

type glbHeader struct {
	Magic   uint32
	Version uint32
	Length  uint32
}

type chunkHeader struct {
	Length uint32
	Type   uint32
}

type gltfDocument struct {
	Asset struct {
		Version   string `json:"version"`
		Generator string `json:"generator"`
	} `json:"asset"`
	Scene  int `json:"scene"`
	Scenes []struct {
		Name  string `json:"name"`
		Nodes []int  `json:"nodes"`
	} `json:"scenes"`
	Nodes []struct {
		Name     string `json:"name"`
		Mesh     *int   `json:"mesh"`
		Children []int  `json:"children"`
	} `json:"nodes"`
	Meshes []struct {
		Name       string            `json:"name"`
		Primitives []json.RawMessage `json:"primitives"`
	} `json:"meshes"`
}

// DecodeGLB parses a binary glTF container. Only the JSON chunk is
// interpreted; the BIN chunk length is recorded but its bytes are left to
// the renderer.
func DecodeGLB(r io.Reader) (*Model, error) {
	return decodeGLB(r, -1)
}

// decodeGLB reads at most the chunks it needs. Buffers grow with the bytes
// actually read, never with lengths claimed by the header. A non-negative
// size is the known container size and bounds the header length.
func decodeGLB(r io.Reader, size int64) (*Model, error) {
	var hdr glbHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read glb header: %w", truncated(err))
	}
	if hdr.Magic != glbMagic {
		return nil, ErrBadMagic
	}
	if hdr.Version != glbVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, hdr.Version)
	}
	if hdr.Length < glbHeaderSize || (size >= 0 && int64(hdr.Length) > size) {
		return nil, ErrTruncated
	}
	remaining := int64(hdr.Length) - glbHeaderSize

	var first chunkHeader
	if err := binary.Read(r, binary.LittleEndian, &first); err != nil {
		return nil, fmt.Errorf("read json chunk header: %w", truncated(err))
	}
	remaining -= chunkHeaderSize
	if first.Type != chunkTypeJSON {
		return nil, ErrMissingJSONChunk
	}
	if remaining < 0 || int64(first.Length) > remaining {
		return nil, ErrTruncated
	}
	jsonData, err := io.ReadAll(io.LimitReader(r, int64(first.Length)))
	if err != nil {
		return nil, fmt.Errorf("read json chunk: %w", err)
	}
	if len(jsonData) < int(first.Length) {
		return nil, fmt.Errorf("read json chunk: %w", ErrTruncated)
	}
	remaining -= int64(first.Length)

	var doc gltfDocument
	if err := json.Unmarshal(bytes.TrimRight(jsonData, " \x00"), &doc); err != nil {
		return nil, fmt.Errorf("parse gltf json: %w", err)
	}

	model := modelFromDocument(&doc)

	if remaining >= chunkHeaderSize {
		var second chunkHeader
		if err := binary.Read(r, binary.LittleEndian, &second); err == nil && second.Type == chunkTypeBIN {
			model.BinaryLength = int(second.Length)
		}
	}
	return model, nil
}

func modelFromDocument(doc *gltfDocument) *Model {
	model := &Model{
		Version:   doc.Asset.Version,
		Generator: doc.Asset.Generator,
	}
	if doc.Scene >= 0 && doc.Scene < len(doc.Scenes) {
		model.SceneName = doc.Scenes[doc.Scene].Name
	}
	for _, n := range doc.Nodes {
		model.Nodes = append(model.Nodes, n.Name)
	}
	for i, m := range doc.Meshes {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("mesh_%d", i)
		}
		model.Meshes = append(model.Meshes, Mesh{
			Name:       name,
			Primitives: len(m.Primitives),
		})
	}
	return model
}

func truncated(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrTruncated
	}
	return err
}
