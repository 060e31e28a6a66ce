package wallgeom

// Monitor receives operation lifecycle hooks from the engine. A host that
// wants performance telemetry wraps engine calls by supplying a Monitor;
// the engine itself collects nothing.
type Monitor interface {
	// StartOperation is called when a pipeline operation begins and
	// returns an opaque id passed back to EndOperation.
	StartOperation(operation string, inputComplexity int) string

	// EndOperation closes an operation. errorKind is empty on success.
	EndOperation(id string, outputComplexity int, success bool, errorKind ErrorKind)
}

// nopMonitor is the default Monitor: it does nothing.
type nopMonitor struct{}

func (nopMonitor) StartOperation(string, int) string         { return "" }
func (nopMonitor) EndOperation(string, int, bool, ErrorKind) {}
