package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/domain"
)

func TestFilter_Matches(t *testing.T) {
	chatgpt := "chatgpt"
	perplexity := "perplexity"

	any := domain.FilterAny()
	assert.True(t, any.Matches(&chatgpt))
	assert.True(t, any.Matches(nil), "unset filter passes unresolved values")

	eq := domain.FilterEq("chatgpt")
	assert.True(t, eq.Matches(&chatgpt))
	assert.False(t, eq.Matches(&perplexity))
	assert.False(t, eq.Matches(nil), "set filter rejects unresolved values")
}

func TestTopicFilter_Matches(t *testing.T) {
	topicID := uuid.New()
	otherID := uuid.New()

	assert.True(t, domain.TopicAny().Matches(nil))
	assert.True(t, domain.TopicEq(topicID).Matches(&topicID))
	assert.False(t, domain.TopicEq(topicID).Matches(&otherID))
	assert.False(t, domain.TopicEq(topicID).Matches(nil))
}

func TestDimensionFilter_IsZero(t *testing.T) {
	assert.True(t, domain.DimensionFilter{}.IsZero())
	assert.False(t, domain.DimensionFilter{Platform: domain.FilterEq("chatgpt")}.IsZero())
	assert.False(t, domain.DimensionFilter{Topic: domain.TopicEq(uuid.New())}.IsZero())
}
