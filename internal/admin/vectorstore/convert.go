package vectorstore

import (
	"fmt"
	"strings"
	"time"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/qdrant/go-client/qdrant"
)

var distanceToProto = map[domain.Distance]qdrant.Distance{
	domain.DistanceCosine: qdrant.Distance_Cosine,
	domain.DistanceDot:    qdrant.Distance_Dot,
	domain.DistanceEuclid: qdrant.Distance_Euclid,
}

func createCollectionRequest(spec domain.CollectionSpec) *qdrant.CreateCollection {
	dist, ok := distanceToProto[spec.Distance]
	if !ok {
		dist = qdrant.Distance_Cosine
	}
	req := &qdrant.CreateCollection{
		CollectionName: spec.Name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     spec.VectorSize,
			Distance: dist,
		}),
	}
	if spec.EfConstruct != nil || spec.M != nil {
		req.HnswConfig = &qdrant.HnswConfigDiff{
			M:           spec.M,
			EfConstruct: spec.EfConstruct,
		}
	}
	return req
}

func collectionInfoFromProto(name string, info *qdrant.CollectionInfo, count uint64) domain.CollectionInfo {
	out := domain.CollectionInfo{
		Name:         name,
		Status:       strings.ToLower(info.GetStatus().String()),
		PointsCount:  info.GetPointsCount(),
		VectorsCount: count,
		Distance:     "Unknown",
	}
	if params := info.GetConfig().GetParams().GetVectorsConfig().GetParams(); params != nil {
		out.VectorSize = params.GetSize()
		out.Distance = params.GetDistance().String()
	}
	return out
}

func pointIDToProto(id domain.PointID) *qdrant.PointId {
	if id.IsNum {
		return qdrant.NewIDNum(id.Num)
	}
	return qdrant.NewIDUUID(id.Str)
}

func pointIDsToProto(ids []domain.PointID) []*qdrant.PointId {
	out := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		out = append(out, pointIDToProto(id))
	}
	return out
}

func pointIDFromProto(id *qdrant.PointId) domain.PointID {
	switch v := id.GetPointIdOptions().(type) {
	case *qdrant.PointId_Num:
		return domain.NumID(v.Num)
	case *qdrant.PointId_Uuid:
		return domain.StrID(v.Uuid)
	}
	return domain.PointID{}
}

func pointsToProto(points []domain.Point) ([]*qdrant.PointStruct, error) {
	out := make([]*qdrant.PointStruct, 0, len(points))
	for i, p := range points {
		payload, err := qdrant.TryValueMap(p.Payload)
		if err != nil {
			return nil, fmt.Errorf("point %d payload: %w", i, err)
		}
		out = append(out, &qdrant.PointStruct{
			Id:      pointIDToProto(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: payload,
		})
	}
	return out, nil
}

func scoredPointsFromProto(resp []*qdrant.ScoredPoint) []domain.ScoredPoint {
	out := make([]domain.ScoredPoint, 0, len(resp))
	for _, r := range resp {
		out = append(out, domain.ScoredPoint{
			ID:      pointIDFromProto(r.GetId()),
			Score:   r.GetScore(),
			Payload: payloadFromProto(r.GetPayload()),
		})
	}
	return out
}

func payloadFromProto(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return nil
	}
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = valueFromProto(v)
	}
	return out
}

func valueFromProto(v *qdrant.Value) any {
	switch val := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_StructValue:
		return payloadFromProto(val.StructValue.GetFields())
	case *qdrant.Value_ListValue:
		items := make([]any, 0, len(val.ListValue.GetValues()))
		for _, item := range val.ListValue.GetValues() {
			items = append(items, valueFromProto(item))
		}
		return items
	}
	return nil
}

func snapshotFromProto(d *qdrant.SnapshotDescription) domain.Snapshot {
	var created time.Time
	if ts := d.GetCreationTime(); ts != nil {
		created = ts.AsTime()
	}
	return domain.Snapshot{
		Name:         d.GetName(),
		Size:         d.GetSize(),
		CreationTime: created,
	}
}
