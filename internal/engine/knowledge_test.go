package engine

import "testing"

func TestSearchKnowledgeBackupQuery(t *testing.T) {
	eng := testEngine()

	matches := eng.SearchKnowledge("backup policy")
	if len(matches) == 0 {
		t.Fatal("no matches for backup policy")
	}
	if matches[0].Entry.ID != "backup-policy" {
		t.Errorf("top = %s, want backup-policy", matches[0].Entry.ID)
	}
	for _, m := range matches {
		if m.Entry.ID == "dns-cutover" {
			t.Error("unrelated entry matched backup query")
		}
	}
}

func TestSearchKnowledgeTopicNameCounts(t *testing.T) {
	eng := testEngine()

	// "replica floors" names the topic but no declared keyword beyond
	// "replica"; the topic mention must rank it above keyword-only hits.
	matches := eng.SearchKnowledge("what are our replica floors")
	if len(matches) == 0 {
		t.Fatal("no matches")
	}
	if matches[0].Entry.ID != "replica-floor" {
		t.Errorf("top = %s, want replica-floor", matches[0].Entry.ID)
	}
}

func TestSearchKnowledgeNoMatchIsEmptyNotError(t *testing.T) {
	eng := testEngine()
	if got := eng.SearchKnowledge("kitchen renovation"); len(got) != 0 {
		t.Errorf("unexpected matches: %d", len(got))
	}
	if got := eng.SearchKnowledge(""); len(got) != 0 {
		t.Errorf("empty query matched %d entries", len(got))
	}
}

func TestSearchKnowledgeScoreOrdering(t *testing.T) {
	eng := testEngine()

	matches := eng.SearchKnowledge("backup retention policy")
	for i := 1; i < len(matches); i++ {
		if matches[i-1].Score < matches[i].Score {
			t.Errorf("results not ordered by score: %d before %d", matches[i-1].Score, matches[i].Score)
		}
	}
}
