package otel

import (
	"go.opentelemetry.io/otel/attribute"
)

const (
	AttrNodeName     = attribute.Key("pushgraph.node.name")
	AttrNodeType     = attribute.Key("pushgraph.node.type")
	AttrSourceName   = attribute.Key("pushgraph.source.name")
	AttrMessageValue = attribute.Key("pushgraph.message.value")
	AttrTrailEnabled = attribute.Key("pushgraph.trail.enabled")
	AttrTickStatus   = attribute.Key("pushgraph.tick.status")
	AttrErrorAction  = attribute.Key("pushgraph.error.action")
	AttrErrorNode    = attribute.Key("pushgraph.error.node")
	AttrErrorPhase   = attribute.Key("pushgraph.error.phase")
	AttrDestination  = attribute.Key("messaging.destination.name")
)

// Tick status values
const (
	StatusSuccess = "success"
	StatusRetried = "retried"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)
