package domain

import "time"

type Distance string

const (
	DistanceCosine Distance = "Cosine"
	DistanceDot    Distance = "Dot"
	DistanceEuclid Distance = "Euclid"
)

func (d Distance) Valid() bool {
	switch d {
	case DistanceCosine, DistanceDot, DistanceEuclid:
		return true
	}
	return false
}

// CollectionSpec describes a collection to create.
type CollectionSpec struct {
	Name        string
	VectorSize  uint64
	Distance    Distance
	EfConstruct *uint64 // optional HNSW ef_construct
	M           *uint64 // optional HNSW m
}

type CollectionInfo struct {
	Name         string
	Status       string
	PointsCount  uint64
	VectorsCount uint64
	VectorSize   uint64
	Distance     string
}

type Snapshot struct {
	Name         string
	Size         int64
	CreationTime time.Time
}
