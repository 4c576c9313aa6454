package advisor

import (
	"context"
	"errors"
	"testing"

	"amomaster/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubContexts struct {
	text    string
	queries []string
}

func (s *stubContexts) Build(_ context.Context, _ int64, query string) string {
	s.queries = append(s.queries, query)
	return s.text
}

type stubClient struct {
	reply string
	err   error
	reqs  []tools.ChatRequest
}

func (c *stubClient) Complete(_ context.Context, req tools.ChatRequest) (string, error) {
	c.reqs = append(c.reqs, req)
	return c.reply, c.err
}

func newTestService(client tools.ChatClient) (*Service, *stubContexts) {
	contexts := &stubContexts{text: "パートナー名: みさき\nユーザーが記録したパートナーの情報:\n（まだ記録がありません）"}
	s := NewService(contexts, client, zap.NewNop(), Options{})
	s.pick = func(int) int { return 0 }
	return s, contexts
}

func TestSendMessageUsesModel(t *testing.T) {
	client := &stubClient{reply: "  おい、ちゃんと準備しろ。  "}
	s, contexts := newTestService(client)

	reply := s.SendMessage(context.Background(), 1, "誕生日プレゼント何がいい？", "みーちゃん")

	assert.Equal(t, Reply{Text: "おい、ちゃんと準備しろ。", Provider: ProviderAPI}, reply)
	assert.Equal(t, []string{"誕生日プレゼント何がいい？"}, contexts.queries)

	require.Len(t, client.reqs, 1)
	req := client.reqs[0]
	assert.Equal(t, contexts.text+"\n\n---\nユーザーの質問: 誕生日プレゼント何がいい？", req.Prompt)
	assert.Contains(t, req.SystemPrompt, "「みーちゃん」")
	assert.InDelta(t, 0.7, req.Temperature, 0.0001)
	assert.Equal(t, 512, req.MaxTokens)
}

func TestSendMessageFallsBackToMock(t *testing.T) {
	tests := []struct {
		name   string
		client tools.ChatClient
	}{
		{"no client", nil},
		{"client error", &stubClient{err: errors.New("boom")}},
		{"empty reply", &stubClient{reply: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestService(tt.client)

			reply := s.SendMessage(context.Background(), 1, "デートどこ行こう", "")

			assert.Equal(t, ProviderMock, reply.Provider)
			assert.Equal(t, "ふーん、「デートどこ行こう...」ね。で、実際に行動に移したのか？口だけじゃパートナーは幸せにならないぞ 👊", reply.Text)
		})
	}
}

func TestMockReplyTruncatesQuery(t *testing.T) {
	s, _ := newTestService(nil)
	long := "あいうえおかきくけこさしすせそたちつてとなにぬねの"

	reply := s.SendMessage(context.Background(), 1, long, "")

	assert.Contains(t, reply.Text, "「あいうえおかきくけこさしすせそたちつてと...」")
}

func TestMockRepliesAreAllReachable(t *testing.T) {
	s, _ := newTestService(nil)
	seen := map[string]bool{}
	for i := 0; i < len(mockResponses("x")); i++ {
		s.pick = func(int) int { return i }
		seen[s.SendMessage(context.Background(), 1, "x", "").Text] = true
	}
	assert.Len(t, seen, 5)
}

func TestDiaryInsight(t *testing.T) {
	client := &stubClient{reply: "楽しそうだな。その気持ち、言葉で伝えたか？"}
	s, _ := newTestService(client)

	text, err := s.DiaryInsight(context.Background(), "一緒に映画を観た", "happy")
	require.NoError(t, err)
	assert.Equal(t, "楽しそうだな。その気持ち、言葉で伝えたか？", text)

	require.Len(t, client.reqs, 1)
	assert.Equal(t, DiaryInsightPrompt, client.reqs[0].SystemPrompt)
	assert.Equal(t, "今日の気分: happy\n\n日記内容:\n一緒に映画を観た", client.reqs[0].Prompt)
	assert.Equal(t, 150, client.reqs[0].MaxTokens)
}

func TestDiaryInsightErrors(t *testing.T) {
	s, _ := newTestService(nil)
	_, err := s.DiaryInsight(context.Background(), "日記", "")
	assert.ErrorIs(t, err, tools.ErrNoAPIKey)
	assert.True(t, IsPermanent(err))

	s, _ = newTestService(&stubClient{reply: ""})
	_, err = s.DiaryInsight(context.Background(), "日記", "")
	assert.ErrorIs(t, err, tools.ErrEmptyReply)
	assert.False(t, IsPermanent(err))
}

func TestDiaryUserPromptWithoutMood(t *testing.T) {
	assert.Equal(t, "日記内容:\n散歩した", diaryUserPrompt("散歩した", ""))
}

func TestMasterSystemPrompt(t *testing.T) {
	base := MasterSystemPrompt("")
	assert.Contains(t, base, "恋愛マスター")
	assert.NotContains(t, base, "## パートナーについて")
	assert.Equal(t, base, MasterSystemPrompt("   "))

	withNick := MasterSystemPrompt("たろう")
	assert.True(t, len(withNick) > len(base))
	assert.Contains(t, withNick, "呼び名は「たろう」です。")
}

func TestEventWarning(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{-1, ""},
		{0, "今日は記念日だ。全力を尽くせ。パートナーの笑顔、お前が作るんだよ"},
		{1, "明日は記念日だ。最終確認はしたか？レストラン予約、プレゼント、服装…抜かりはないな？"},
		{2, "記念日まであと3日。プランは固まったな？プレゼントは用意したな？言い訳は聞かねぇぞ"},
		{3, "記念日まであと3日。プランは固まったな？プレゼントは用意したな？言い訳は聞かねぇぞ"},
		{7, "おい、記念日まであと1週間だぞ。準備は進んでるか？まさか何もしてないとは言わせねぇ"},
		{8, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EventWarning("記念日", tt.days), "days=%d", tt.days)
	}
}

func TestProviderLabel(t *testing.T) {
	assert.Equal(t, "デモモード", ProviderMock.Label())
	assert.Equal(t, "OpenAI GPT-4o-mini", ProviderAPI.Label())
}
