package customer_test

import (
	"testing"

	"github.com/cassiomorais/checkout/internal/domain/customer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NormalizesEmail(t *testing.T) {
	c, err := customer.New("  Jane.Doe@Example.COM ", " Jane Doe ", nil)
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", c.Email)
	assert.Equal(t, "Jane Doe", c.FullName)
	assert.Nil(t, c.Phone)
	assert.NotZero(t, c.ID)
}

func TestNew_Invalid(t *testing.T) {
	_, err := customer.New("", "Jane Doe", nil)
	assert.Error(t, err)

	_, err = customer.New("not-an-email", "Jane Doe", nil)
	assert.Error(t, err)

	_, err = customer.New("jane@example.com", "   ", nil)
	assert.Error(t, err)
}

func TestNew_WithPhone(t *testing.T) {
	phone := "+573001112233"
	c, err := customer.New("jane@example.com", "Jane Doe", &phone)
	require.NoError(t, err)
	require.NotNil(t, c.Phone)
	assert.Equal(t, phone, *c.Phone)
}
