package readmodel

import "fmt"

type Kind string

const (
	KindDetail  Kind = "detail"
	KindList    Kind = "list"
	KindHistory Kind = "history"
)

// Key names one cached read-model.
type Key struct {
	Kind   Kind
	Domain string
	ID     string
}

func (k Key) String() string {
	if k.Kind == KindList {
		return fmt.Sprintf("dashboard:%s:list", k.Domain)
	}
	return fmt.Sprintf("dashboard:%s:%s:%s", k.Domain, k.Kind, k.ID)
}

func DetailKey(domain, id string) Key  { return Key{Kind: KindDetail, Domain: domain, ID: id} }
func ListKey(domain string) Key        { return Key{Kind: KindList, Domain: domain} }
func HistoryKey(domain, id string) Key { return Key{Kind: KindHistory, Domain: domain, ID: id} }

// Dependents are the read-models that show an entity's status: its detail, the collection
// it appears in, and its status-tracking history.
func Dependents(domain, id string) []Key {
	return []Key{DetailKey(domain, id), ListKey(domain), HistoryKey(domain, id)}
}
