package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/collaborator"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
)

func testCatalog(base time.Time) *Catalog {
	c := NewCatalog()
	for i, id := range []string{"s1", "s2", "s3"} {
		start := base.Add(time.Duration(i*2) * time.Hour)
		c.AddSlot(model.Slot{
			SlotId:        id,
			ServiceCenter: "center-north",
			StartTime:     start,
			EndTime:       start.Add(2 * time.Hour),
		})
	}
	return c
}

func TestCatalog(t *testing.T) {
	base := time.Now().Add(time.Hour)
	for scenario, fn := range map[string]func(t *testing.T, c *Catalog){
		"find returns slots inside window sorted": func(t *testing.T, c *Catalog) {
			slots, err := c.FindSlots(context.Background(), collaborator.SlotSearchRequest{
				WindowStart: base.Add(-time.Minute),
				WindowEnd:   base.Add(4 * time.Hour),
			})
			require.NoError(t, err)
			require.Len(t, slots, 2)
			require.Equal(t, "s1", slots[0].SlotId)
			require.Equal(t, "s2", slots[1].SlotId)
		},
		"find honors exclusions": func(t *testing.T, c *Catalog) {
			slots, err := c.FindSlots(context.Background(), collaborator.SlotSearchRequest{
				WindowStart: base.Add(-time.Minute),
				WindowEnd:   base.Add(8 * time.Hour),
				Exclude:     []string{"s1", "s3"},
			})
			require.NoError(t, err)
			require.Len(t, slots, 1)
			require.Equal(t, "s2", slots[0].SlotId)
		},
		"double booking yields conflict": func(t *testing.T, c *Catalog) {
			appointmentId, err := c.Book(context.Background(), "cust-1", "s1")
			require.NoError(t, err)
			require.NotEmpty(t, appointmentId)

			_, err = c.Book(context.Background(), "cust-2", "s1")
			require.Error(t, err)
			require.Equal(t, collaborator.CONFLICT, collaborator.Classify(err))
		},
		"booking unknown slot is permanent": func(t *testing.T, c *Catalog) {
			_, err := c.Book(context.Background(), "cust-1", "nope")
			require.Error(t, err)
			require.Equal(t, collaborator.PERMANENT, collaborator.Classify(err))
		},
		"cancel frees the slot": func(t *testing.T, c *Catalog) {
			appointmentId, err := c.Book(context.Background(), "cust-1", "s2")
			require.NoError(t, err)
			require.NoError(t, c.Cancel(context.Background(), appointmentId))

			_, err = c.Book(context.Background(), "cust-2", "s2")
			require.NoError(t, err)
		},
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t, testCatalog(base))
		})
	}
}

func TestSeedFillsEveryCenter(t *testing.T) {
	c := NewCatalog()
	from := time.Now()
	c.Seed([]string{"a", "b"}, from, from.Add(48*time.Hour), 2*time.Hour, 4)

	slots, err := c.FindSlots(context.Background(), collaborator.SlotSearchRequest{
		WindowStart:   from.Add(-48 * time.Hour),
		WindowEnd:     from.Add(96 * time.Hour),
		ServiceCenter: "a",
	})
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	for _, slot := range slots {
		require.Equal(t, "a", slot.ServiceCenter)
		require.NotEmpty(t, slot.SlotId)
	}
}
