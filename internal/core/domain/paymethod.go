package domain

// PayMethod describes one gateway payment method: a static descriptor
// resolved at configuration-load time, never via per-request lookup.
type PayMethod struct {
	Identifier   string // e.g. "computop_cc"
	DisplayName  string
	EndpointPath string // gateway page, e.g. "payssl.aspx"
}

// PayMethodRegistry maps method identifiers to descriptors.
type PayMethodRegistry struct {
	methods map[string]PayMethod
}

// DefaultPayMethods are the gateway pages the paygate exposes.
func DefaultPayMethods() []PayMethod {
	return []PayMethod{
		{Identifier: "computop", DisplayName: "Computop Paygate", EndpointPath: "paymentpage.aspx"},
		{Identifier: "computop_cc", DisplayName: "Credit card", EndpointPath: "payssl.aspx"},
		{Identifier: "computop_giropay", DisplayName: "giropay", EndpointPath: "giropay.aspx"},
		{Identifier: "computop_dd", DisplayName: "Direct debit", EndpointPath: "paysdd.aspx"},
	}
}

// NewPayMethodRegistry builds a registry from descriptors.
func NewPayMethodRegistry(methods []PayMethod) *PayMethodRegistry {
	m := make(map[string]PayMethod, len(methods))
	for _, pm := range methods {
		m[pm.Identifier] = pm
	}
	return &PayMethodRegistry{methods: m}
}

// Lookup resolves a method identifier.
func (r *PayMethodRegistry) Lookup(identifier string) (PayMethod, bool) {
	pm, ok := r.methods[identifier]
	return pm, ok
}

// Identifiers returns all registered method identifiers.
func (r *PayMethodRegistry) Identifiers() []string {
	ids := make([]string, 0, len(r.methods))
	for id := range r.methods {
		ids = append(ids, id)
	}
	return ids
}
