package vectorindex

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/nvandessel/vexlake/internal/vxerr"
)

// serialized format:
//
//	header:  dimension int32, m int32, mMax0 int32, efConstruction int32,
//	         nodeCount int32, hasEntry uint8, entryPoint uint64, topLayer int32
//	per node: id uint64, layerCount int32 (= len(neighbors)),
//	          vector (dimension float32s),
//	          per layer: neighborCount int32, neighbor ids (uint64 each)
//
// Nodes are written in ascending id order.
//
// Ml is not persisted: Deserialize recomputes it as 1/ln(M), so an index
// built with a custom Ml assigns layers with the default scale for any
// inserts made after a round trip. Ml does not affect Search.

const maxDimension = 1 << 20
const maxDegree = 1 << 20

// Serialize writes a bijective byte encoding of the index to w: an Index
// rebuilt from this stream behaves identically under Search to the index
// that produced it. Call only when no Insert is in flight.
func (idx *Index) Serialize(w io.Writer) error {
	header := struct {
		Dimension      int32
		M              int32
		MMax0          int32
		EfConstruction int32
		NodeCount      int32
		HasEntry       uint8
		EntryPoint     uint64
		TopLayer       int32
	}{
		Dimension:      int32(idx.config.Dimension),
		M:              int32(idx.config.M),
		MMax0:          int32(idx.config.MMax0),
		EfConstruction: int32(idx.config.EfConstruction),
		NodeCount:      int32(len(idx.nodes)),
		EntryPoint:     idx.entryPoint,
		TopLayer:       int32(idx.topLayer),
	}
	if idx.hasEntry {
		header.HasEntry = 1
	}

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return vxerr.Wrap(vxerr.Serialization, err, "write header")
	}

	ids := make([]uint64, 0, len(idx.nodes))
	for id := range idx.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		n := idx.nodes[id]
		nodeHeader := struct {
			ID         uint64
			LayerCount int32
		}{ID: n.id, LayerCount: int32(len(n.neighbors))}
		if err := binary.Write(w, binary.LittleEndian, &nodeHeader); err != nil {
			return vxerr.Wrap(vxerr.Serialization, err, "write node header for id %d", n.id)
		}
		if err := binary.Write(w, binary.LittleEndian, n.vector); err != nil {
			return vxerr.Wrap(vxerr.Serialization, err, "write vector for id %d", n.id)
		}
		for l, neighbors := range n.neighbors {
			count := int32(len(neighbors))
			if err := binary.Write(w, binary.LittleEndian, count); err != nil {
				return vxerr.Wrap(vxerr.Serialization, err, "write neighbor count for id %d layer %d", n.id, l)
			}
			if count > 0 {
				if err := binary.Write(w, binary.LittleEndian, neighbors); err != nil {
					return vxerr.Wrap(vxerr.Serialization, err, "write neighbors for id %d layer %d", n.id, l)
				}
			}
		}
	}

	return nil
}

// Deserialize reconstructs an Index from a stream produced by Serialize.
// Ml is recomputed from M the same way New does, since it is not
// persisted.
func Deserialize(r io.Reader) (*Index, error) {
	var header struct {
		Dimension      int32
		M              int32
		MMax0          int32
		EfConstruction int32
		NodeCount      int32
		HasEntry       uint8
		EntryPoint     uint64
		TopLayer       int32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, vxerr.Wrap(vxerr.Serialization, err, "read header")
	}
	if header.Dimension <= 0 || header.Dimension > maxDimension {
		return nil, vxerr.New(vxerr.Serialization, "invalid dimension in header: %d", header.Dimension)
	}
	if header.NodeCount < 0 {
		return nil, vxerr.New(vxerr.Serialization, "invalid node count in header: %d", header.NodeCount)
	}

	cfg := Config{
		Dimension:      int(header.Dimension),
		M:              int(header.M),
		MMax0:          int(header.MMax0),
		EfConstruction: int(header.EfConstruction),
	}.withDefaults()

	idx := &Index{
		config:     cfg,
		nodes:      make(map[uint64]*node, header.NodeCount),
		entryPoint: header.EntryPoint,
		hasEntry:   header.HasEntry != 0,
		topLayer:   int(header.TopLayer),
	}

	for i := 0; i < int(header.NodeCount); i++ {
		var nodeHeader struct {
			ID         uint64
			LayerCount int32
		}
		if err := binary.Read(r, binary.LittleEndian, &nodeHeader); err != nil {
			return nil, vxerr.Wrap(vxerr.Serialization, err, "read node %d header", i)
		}
		if nodeHeader.LayerCount < 0 || nodeHeader.LayerCount > 64 {
			return nil, vxerr.New(vxerr.Serialization, "invalid layer count for node %d: %d", nodeHeader.ID, nodeHeader.LayerCount)
		}

		vec := make([]float32, cfg.Dimension)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return nil, vxerr.Wrap(vxerr.Serialization, err, "read vector for node %d", nodeHeader.ID)
		}

		n := &node{
			id:        nodeHeader.ID,
			vector:    vec,
			neighbors: make([][]uint64, nodeHeader.LayerCount),
		}
		for l := 0; l < int(nodeHeader.LayerCount); l++ {
			var count int32
			if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
				return nil, vxerr.Wrap(vxerr.Serialization, err, "read neighbor count for node %d layer %d", nodeHeader.ID, l)
			}
			if count < 0 || count > maxDegree {
				return nil, vxerr.New(vxerr.Serialization, "invalid neighbor count for node %d layer %d: %d", nodeHeader.ID, l, count)
			}
			neighbors := make([]uint64, count)
			if count > 0 {
				if err := binary.Read(r, binary.LittleEndian, neighbors); err != nil {
					return nil, vxerr.Wrap(vxerr.Serialization, err, "read neighbors for node %d layer %d", nodeHeader.ID, l)
				}
			}
			n.neighbors[l] = neighbors
		}

		idx.nodes[n.id] = n
	}

	if idx.hasEntry {
		if _, ok := idx.nodes[idx.entryPoint]; !ok {
			return nil, fmt.Errorf("vectorindex: entry point %d not present among deserialized nodes", idx.entryPoint)
		}
	}

	return idx, nil
}
