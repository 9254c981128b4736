package workflow

type Catalog map[Domain]Workflow

func NewCatalog(ws ...Workflow) Catalog {
	c := make(Catalog, len(ws))
	for _, w := range ws {
		c[w.Domain()] = w
	}
	return c
}

func (c Catalog) Lookup(d Domain) (Workflow, error) {
	w, ok := c[d]
	if !ok {
		return nil, ErrUnknownDomain
	}
	return w, nil
}
