package testutil

import (
	"fmt"

	"github.com/Sternrassler/medshield-admin/pkg/model"
)

// Fixture tokens accepted by a MockAPI seeded with Seed.
const (
	AdminToken    = "admin-token"
	DisabledToken = "disabled-token"
)

// Seed adds the fixture users and n clusters for phase/role. Every third
// cluster has no cluster id and every second document has processed text.
func Seed(m *MockAPI, phase, role string, n int) []model.DocumentCluster {
	m.AddUser(AdminToken, model.User{Username: "admin", Email: "admin@example.com", Role: "admin"})
	m.AddUser(DisabledToken, model.User{Username: "gone", Disabled: true})

	clusters := make([]model.DocumentCluster, n)
	for i := range clusters {
		clusters[i] = Cluster(i, phase, role)
	}
	m.AddCluster(clusters...)
	return clusters
}

// Cluster builds fixture cluster i with two documents.
func Cluster(i int, phase, role string) model.DocumentCluster {
	c := model.DocumentCluster{
		RepText: fmt.Sprintf("Requirement %d for %s / %s", i, phase, role),
	}
	if i%3 != 0 {
		c.ClusterID = model.ClusterID(fmt.Sprintf("c-%s-%s-%d", phase, role, i))
	}
	for j := 0; j < 2; j++ {
		d := model.Document{
			ID:           fmt.Sprintf("d-%s-%s-%d-%d", phase, role, i, j),
			Priority:     "Shall",
			Subject:      "Manufacturer",
			Category:     fmt.Sprintf("Category %d", i%4),
			Standard:     "IEC 81001-5-1",
			OriginalText: fmt.Sprintf("The manufacturer shall document control %d.%d.", i, j),
			Phase:        phase,
			Role:         role,
			Status:       "Not Started",
			ClusterID:    c.ClusterID,
		}
		if j%2 == 1 {
			d.ProcessedText = fmt.Sprintf("Document control %d.%d.", i, j)
		}
		c.Documents = append(c.Documents, d)
	}
	return c
}
