package handlers

import (
	"reconnect/pkg/apperror"
	"reconnect/pkg/domain"

	"reconnect/services/planner-svc/internal/service"
	"reconnect/services/planner-svc/internal/topology"
)

// buildingDTO is the wire form of a building record.
type buildingDTO struct {
	ID           string  `json:"id"`
	Inhabitants  int     `json:"inhabitants"`
	BuildingType string  `json:"building_type"`
	Priority     string  `json:"priority"`
	Connected    bool    `json:"connected"`
	Cost         float64 `json:"cost"`
	Distance     float64 `json:"distance"`
}

func (d *buildingDTO) toDomain() (domain.Building, error) {
	buildingType, err := domain.ParseBuildingType(d.BuildingType)
	if err != nil {
		return domain.Building{}, err
	}
	priority, err := domain.ParsePriorityLevel(d.Priority)
	if err != nil {
		return domain.Building{}, err
	}
	return domain.Building{
		ID:          d.ID,
		Inhabitants: d.Inhabitants,
		Type:        buildingType,
		Priority:    priority,
		Connected:   d.Connected,
		Cost:        d.Cost,
		Distance:    d.Distance,
	}, nil
}

// infraDTO is the wire form of an infrastructure record.
type infraDTO struct {
	ID           string  `json:"id"`
	BuildingID   string  `json:"building_id"`
	Type         string  `json:"type"`
	State        string  `json:"state"`
	Length       float64 `json:"length"`
	HousesServed int     `json:"houses_served"`
}

func (d *infraDTO) toDomain() (domain.Infrastructure, error) {
	infraType, err := domain.ParseInfraType(d.Type)
	if err != nil {
		return domain.Infrastructure{}, err
	}
	state, err := domain.ParseInfraState(d.State)
	if err != nil {
		return domain.Infrastructure{}, err
	}
	return domain.Infrastructure{
		ID:           d.ID,
		BuildingID:   d.BuildingID,
		Type:         infraType,
		State:        state,
		Length:       d.Length,
		HousesServed: d.HousesServed,
	}, nil
}

// planRequestDTO is the body of POST /v1/plan.
type planRequestDTO struct {
	Buildings       []buildingDTO `json:"buildings"`
	Infrastructures []infraDTO    `json:"infrastructures"`
}

func (d *planRequestDTO) toService() (*service.PlanRequest, error) {
	req := &service.PlanRequest{
		Buildings:       make([]domain.Building, 0, len(d.Buildings)),
		Infrastructures: make([]domain.Infrastructure, 0, len(d.Infrastructures)),
	}
	for i := range d.Buildings {
		b, err := d.Buildings[i].toDomain()
		if err != nil {
			return nil, err
		}
		req.Buildings = append(req.Buildings, b)
	}
	for i := range d.Infrastructures {
		infra, err := d.Infrastructures[i].toDomain()
		if err != nil {
			return nil, err
		}
		req.Infrastructures = append(req.Infrastructures, infra)
	}
	return req, nil
}

// rankingRequestDTO is the body of POST /v1/ranking.
type rankingRequestDTO struct {
	Buildings []buildingDTO `json:"buildings"`
}

// nodeDTO is the wire form of a graph node.
type nodeDTO struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Name        string  `json:"name,omitempty"`
	Capacity    float64 `json:"capacity,omitempty"`
	Inhabitants int     `json:"inhabitants,omitempty"`
	Connected   bool    `json:"connected,omitempty"`
}

func (d *nodeDTO) toTopology() (topology.Node, error) {
	kind, err := topology.ParseNodeKind(d.Kind)
	if err != nil {
		return topology.Node{}, err
	}
	return topology.Node{
		ID:          topology.NodeID(d.ID),
		Kind:        kind,
		X:           d.X,
		Y:           d.Y,
		Name:        d.Name,
		Capacity:    d.Capacity,
		Inhabitants: d.Inhabitants,
		Connected:   d.Connected,
	}, nil
}

// edgeDTO is the wire form of a graph edge.
type edgeDTO struct {
	EndpointA string  `json:"endpoint_a"`
	EndpointB string  `json:"endpoint_b"`
	Length    float64 `json:"length"`
	Kind      string  `json:"kind"`
	Damaged   bool    `json:"damaged,omitempty"`
	Capacity  float64 `json:"capacity,omitempty"`
}

func (d *edgeDTO) toTopology() (topology.Edge, error) {
	kind, err := topology.ParseEdgeKind(d.Kind)
	if err != nil {
		return topology.Edge{}, err
	}
	status := topology.EdgeStatusActive
	if d.Damaged {
		status = topology.EdgeStatusDamaged
	}
	return topology.Edge{
		A:        topology.NodeID(d.EndpointA),
		B:        topology.NodeID(d.EndpointB),
		Length:   d.Length,
		Kind:     kind,
		Status:   status,
		Capacity: d.Capacity,
	}, nil
}

// graphMetricsRequestDTO is the body of POST /v1/graph/metrics.
type graphMetricsRequestDTO struct {
	Nodes       []nodeDTO `json:"nodes"`
	Edges       []edgeDTO `json:"edges"`
	Connect     bool      `json:"connect"`
	Metrics     []string  `json:"metrics,omitempty"`
	TopCritical int       `json:"top_critical,omitempty"`
	PathFrom    string    `json:"path_from,omitempty"`
	PathTo      string    `json:"path_to,omitempty"`
}

func (d *graphMetricsRequestDTO) toService() (*service.GraphMetricsRequest, error) {
	if (d.PathFrom == "") != (d.PathTo == "") {
		return nil, apperror.New(apperror.CodeInvalidArgument,
			"path_from and path_to must be supplied together")
	}

	req := &service.GraphMetricsRequest{
		Nodes:       make([]topology.Node, 0, len(d.Nodes)),
		Edges:       make([]topology.Edge, 0, len(d.Edges)),
		Connect:     d.Connect,
		TopCritical: d.TopCritical,
		PathFrom:    topology.NodeID(d.PathFrom),
		PathTo:      topology.NodeID(d.PathTo),
	}
	for i := range d.Nodes {
		n, err := d.Nodes[i].toTopology()
		if err != nil {
			return nil, err
		}
		req.Nodes = append(req.Nodes, n)
	}
	for i := range d.Edges {
		e, err := d.Edges[i].toTopology()
		if err != nil {
			return nil, err
		}
		req.Edges = append(req.Edges, e)
	}
	for _, name := range d.Metrics {
		metric, err := topology.ParseMetric(name)
		if err != nil {
			return nil, err
		}
		req.Metrics = append(req.Metrics, metric)
	}
	return req, nil
}
