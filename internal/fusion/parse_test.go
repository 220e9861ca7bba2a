package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReplyPlain(t *testing.T) {
	raw := `Sure! {"language":"en","sections":[{"heading":"Bone","text_markdown":"Loss [1]","imageRefs":[{"doc":1,"img":0,"caption":"scan","citeIndex":1}]}]} Hope it helps.`
	reply, err := ParseReply(raw)
	require.NoError(t, err)
	require.Len(t, reply.Sections, 1)
	assert.Equal(t, "en", reply.Language)
	assert.Equal(t, "Loss [1]", reply.Sections[0].Body())
	assert.Equal(t, Int(1), reply.Sections[0].ImageRefs[0].Doc)
	assert.Equal(t, Int(0), reply.Sections[0].ImageRefs[0].Img)
}

func TestParseReplyPrefersJSONFence(t *testing.T) {
	raw := "Here is {not this}.\n```json\n{\"language\":\"es\",\"sections\":[]}\n```\n```\n{\"language\":\"fr\"}\n```"
	reply, err := ParseReply(raw)
	require.NoError(t, err)
	assert.Equal(t, "es", reply.Language)

	reply, err = ParseReply("```\n{\"language\":\"fr\",\"sections\":[]}\n```")
	require.NoError(t, err)
	assert.Equal(t, "fr", reply.Language)
}

func TestParseReplyRepairsStrayBackslash(t *testing.T) {
	raw := `{"language":"en","sections":[{"heading":"Dose","text_markdown":"Exposure of 0.5 \Gy per day µ and a \"quote\" [2]"}]}`
	reply, err := ParseReply(raw)
	require.NoError(t, err)
	require.Len(t, reply.Sections, 1)
	assert.Equal(t, `Exposure of 0.5 \Gy per day µ and a "quote" [2]`, reply.Sections[0].Body())
}

func TestParseReplyWithoutJSON(t *testing.T) {
	_, err := ParseReply("I could not find anything relevant, sorry.")
	assert.ErrorIs(t, err, ErrUnparseable)

	_, err = ParseReply(`{"language": "en", "sections": [`)
	assert.ErrorIs(t, err, ErrUnparseable)

	_, err = ParseReply(`{"language": "en", "sections": [}`)
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestFlexInt(t *testing.T) {
	raw := `{"sections":[{"heading":"h","imageRefs":[
		{"doc":"2","img":" 1 "},
		{"doc":2.0,"img":null},
		{"doc":"two","img":1.5},
		{"doc":{"x":1},"img":[1]}
	]}]}`
	reply, err := ParseReply(raw)
	require.NoError(t, err)
	refs := reply.Sections[0].ImageRefs
	require.Len(t, refs, 4)
	assert.Equal(t, Int(2), refs[0].Doc)
	assert.Equal(t, Int(1), refs[0].Img)
	assert.Equal(t, Int(2), refs[1].Doc)
	assert.False(t, refs[1].Img.Valid)
	assert.False(t, refs[2].Doc.Valid)
	assert.False(t, refs[2].Img.Valid)
	assert.False(t, refs[3].Doc.Valid)
}
