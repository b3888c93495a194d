package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewNameSlug(t *testing.T) {
	tests := []struct {
		view ViewName
		want string
	}{
		{ViewWholeTable, "whole_table"},
		{ViewPSM, "psm"},
		{ViewPSMNormalized, "psm_normalized"},
		{ViewName("custom"), "custom"},
	}

	for _, tt := range tests {
		t.Run(string(tt.view), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.Slug())
		})
	}
}

func TestViewOrder(t *testing.T) {
	assert.Equal(t, []ViewName{ViewWholeTable, ViewPSM, ViewPSMNormalized}, ViewOrder)
}
