package api

import (
	"fmt"
	"net/http"
	"testing"

	"bookkeeping/models"
	"bookkeeping/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerRow(id string, typ models.TransactionType, amount int64, date models.Date) models.Transaction {
	return models.Transaction{
		ID:     id,
		Type:   typ,
		Amount: decimal.NewFromInt(amount),
		Date:   date,
		UserID: models.ReservedAdminID,
	}
}

// createTransaction 通过接口创建记录，返回新记录ID
func createTransaction(t *testing.T, env *testEnv, token, body string) string {
	t.Helper()
	before := env.repo.All()
	w := env.do(http.MethodPost, "/api/v1/transactions", token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var list []TransactionView
	decode(t, w, &list)
	require.Len(t, list, len(before)+1)
	seen := map[string]bool{}
	for _, tx := range before {
		seen[tx.ID] = true
	}
	for _, v := range list {
		if !seen[v.ID] {
			return v.ID
		}
	}
	t.Fatal("新记录未出现在返回列表中")
	return ""
}

func TestTransactionHandler_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodGet, "/api/v1/transactions", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodGet, "/api/v1/transactions", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTransactionHandler_CreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, models.ReservedGuestID)

	id := createTransaction(t, env, token, `{"type":"expense","amount":99.5,"date":"2024-01-15","category":"餐饮","description":"午餐"}`)

	w := env.do(http.MethodGet, "/api/v1/transactions/"+id, token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var v TransactionView
	decode(t, w, &v)
	assert.Equal(t, models.TransactionExpense, v.Type)
	assert.Equal(t, "99.5", v.Amount.String())
	assert.Equal(t, "2024-01-15", v.Date.String())
	assert.Equal(t, models.ReservedGuestID, v.UserID)
	assert.Equal(t, service.Unlinked, v.LinkState)
	assert.Nil(t, v.Metrics)
}

func TestTransactionHandler_CreateInvalid(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, models.ReservedAdminID)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"未知类型", `{"type":"transfer","amount":1,"date":"2024-01-01"}`, http.StatusBadRequest},
		{"缺少日期", `{"type":"income","amount":1}`, http.StatusBadRequest},
		{"日期格式错误", `{"type":"income","amount":1,"date":"2024/01/01"}`, http.StatusBadRequest},
		{"负数金额", `{"type":"income","amount":-1,"date":"2024-01-01"}`, http.StatusBadRequest},
		{"关联不存在的支出", `{"type":"income","amount":1,"date":"2024-01-01","linked_expense_id":"missing"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/v1/transactions", token, tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
	assert.Empty(t, env.repo.All())
}

func TestTransactionHandler_ListFilters(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t,
		ledgerRow("e1", models.TransactionExpense, 100, models.NewDate(2024, 1, 10)),
		ledgerRow("i1", models.TransactionIncome, 300, models.NewDate(2024, 2, 10)),
		ledgerRow("e2", models.TransactionExpense, 200, models.NewDate(2024, 3, 10)),
	)
	token := env.token(t, models.ReservedAdminID)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"e1", "i1", "e2"}},
		{"?type=expense", []string{"e1", "e2"}},
		{"?start_date=2024-02-01", []string{"i1", "e2"}},
		{"?start_date=2024-01-10&end_date=2024-02-10", []string{"e1", "i1"}},
		{"?end_date=2024-01-31&type=income", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := env.do(http.MethodGet, "/api/v1/transactions"+tt.query, token, "")
			require.Equal(t, http.StatusOK, w.Code)
			var list []TransactionView
			decode(t, w, &list)
			ids := []string{}
			for _, v := range list {
				ids = append(ids, v.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	w := env.do(http.MethodGet, "/api/v1/transactions?start_date=2024-03-01&end_date=2024-01-01", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(http.MethodGet, "/api/v1/transactions?type=transfer", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionHandler_ListPaged(t *testing.T) {
	env := newTestEnv(t)
	for i := 1; i <= 5; i++ {
		env.seed(t, ledgerRow(fmt.Sprintf("t%d", i), models.TransactionIncome, int64(i), models.NewDate(2024, 1, i)))
	}
	token := env.token(t, models.ReservedAdminID)

	w := env.do(http.MethodGet, "/api/v1/transactions?page=2&page_size=2", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Total    int64             `json:"total"`
		Page     int               `json:"page"`
		PageSize int               `json:"page_size"`
		List     []TransactionView `json:"list"`
	}
	decode(t, w, &page)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 2, page.PageSize)
	require.Len(t, page.List, 2)
	assert.Equal(t, "t3", page.List[0].ID)
	assert.Equal(t, "t4", page.List[1].ID)
}

func TestTransactionHandler_ListRefresh(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, models.ReservedAdminID)

	w := env.do(http.MethodGet, "/api/v1/transactions", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	// 绕过仓库直接写入存储，只有 refresh 才能看到
	env.seed(t, ledgerRow("late", models.TransactionIncome, 1, models.NewDate(2024, 1, 1)))

	var list []TransactionView
	decode(t, env.do(http.MethodGet, "/api/v1/transactions", token, ""), &list)
	assert.Empty(t, list)

	decode(t, env.do(http.MethodGet, "/api/v1/transactions?refresh=true", token, ""), &list)
	require.Len(t, list, 1)
	assert.Equal(t, "late", list[0].ID)
}

func TestTransactionHandler_Update(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t,
		ledgerRow("e1", models.TransactionExpense, 100, models.NewDate(2024, 1, 1)),
		ledgerRow("i1", models.TransactionIncome, 150, models.NewDate(2024, 2, 1)),
	)
	token := env.token(t, models.ReservedGuestID)

	w := env.do(http.MethodPost, "/api/v1/transactions/i1/link", token, `{"expense_id":"e1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 未传关联字段，保持原关联
	w = env.do(http.MethodPut, "/api/v1/transactions/i1", token, `{"type":"income","amount":180,"date":"2024-02-02","category":"回款"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var v TransactionView
	decode(t, w, &v)
	assert.Equal(t, "180", v.Amount.String())
	assert.Equal(t, "e1", v.LinkedTo())
	assert.Equal(t, models.ReservedAdminID, v.UserID)

	// 类型不可修改
	w = env.do(http.MethodPut, "/api/v1/transactions/i1", token, `{"type":"expense","amount":180,"date":"2024-02-02"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 传空串解除关联
	w = env.do(http.MethodPut, "/api/v1/transactions/i1", token, `{"type":"income","amount":180,"date":"2024-02-02","linked_expense_id":""}`)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &v)
	assert.Equal(t, "", v.LinkedTo())
	assert.Equal(t, service.Unlinked, v.LinkState)
}

func TestTransactionHandler_Delete(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t,
		ledgerRow("e1", models.TransactionExpense, 100, models.NewDate(2024, 1, 1)),
		ledgerRow("i1", models.TransactionIncome, 150, models.NewDate(2024, 2, 1)),
	)
	token := env.token(t, models.ReservedAdminID)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/v1/transactions/i1/link", token, `{"expense_id":"e1"}`).Code)

	w := env.do(http.MethodDelete, "/api/v1/transactions/e1", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/v1/transactions/i1", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var v TransactionView
	decode(t, w, &v)
	assert.Nil(t, v.LinkedExpenseID)

	w = env.do(http.MethodDelete, "/api/v1/transactions/e1", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
