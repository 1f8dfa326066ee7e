package domain

// ConfigurationName identifies one compiler/backend/execution pipeline
// under which the test catalog is run.
type ConfigurationName string

// Configurations shipped with the embedded expectation tables.
const (
	// ConfigLinalg is the reference linalg-on-tensors lowering path.
	ConfigLinalg ConfigurationName = "linalg"
	// ConfigDynamoTrace is the dynamic-tracing frontend built on top of linalg.
	ConfigDynamoTrace ConfigurationName = "dynamo-trace"
	// ConfigMHLO is the MHLO backend.
	ConfigMHLO ConfigurationName = "mhlo"
	// ConfigTOSA is the TOSA backend.
	ConfigTOSA ConfigurationName = "tosa"
	// ConfigLazyTensorCore is the lazy-tensor-core backend.
	ConfigLazyTensorCore ConfigurationName = "lazy-tensor-core"
)

// ExpectationKind is the polarity of a configuration's expectation set.
type ExpectationKind string

const (
	// KindXfail means the set lists tests expected to fail.
	// Tests outside the set are expected to pass.
	KindXfail ExpectationKind = "xfail"
	// KindPass means the set lists tests expected to pass.
	// Tests outside the set are expected to fail (not yet supported).
	KindPass ExpectationKind = "pass"
)

// IsValid reports whether k is a known kind.
func (k ExpectationKind) IsValid() bool {
	return k == KindXfail || k == KindPass
}
