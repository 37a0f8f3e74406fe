package store

import "fmt"

// Attribute names of the table and its indexes.
const (
	AttrPK     = "PK"
	AttrSK     = "SK"
	AttrGSI1PK = "GSI1PK"
	AttrGSI1SK = "GSI1SK"
	AttrGSI2PK = "GSI2PK"
	AttrGSI2SK = "GSI2SK"
)

// SKMeta is the sort key of every entity's current-state record.
const SKMeta = "META"

// Entity type names as stored in keys and the entityType attribute.
const (
	EntityTask   = "TASK"
	EntityTicket = "TICKET"
	EntityUser   = "USER"
	EntitySprint = "SPRINT"
)

// EntityPK builds the partition key of an entity's META record.
func EntityPK(domain, entityType, id string) string {
	return fmt.Sprintf("DOMAIN#%s#%s#%s", domain, entityType, id)
}

// TypePK builds the GSI1 partition key grouping all entities of one type
// within a domain. The GSI1 sort key is the entity's createdAt timestamp,
// so a range query on this key yields the type's entities in creation order.
func TypePK(domain, entityType string) string {
	return fmt.Sprintf("DOMAIN#%s#TYPE#%s", domain, entityType)
}

// DomainPK builds the GSI2 partition key grouping every entity of a domain.
func DomainPK(domain string) string {
	return fmt.Sprintf("DOMAIN#%s", domain)
}

// DomainSK builds the GSI2 sort key, clustering a domain's entities by type
// and then by creation time.
func DomainSK(entityType, createdAt string) string {
	return fmt.Sprintf("%s#%s", entityType, createdAt)
}
