package amount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Lumos-Labs-HQ/banksynth/internal/seeder"
)

func TestTransactionDrawsRespectPolicy(t *testing.T) {
	g := seeder.NewDataGenerator(1)

	for _, typ := range TransactionTypes {
		rule := Transaction(typ)
		for i := 0; i < 500; i++ {
			v := rule.Draw(g)
			assert.True(t, rule.Allows(v), "%s drew %s", typ, v)
			switch rule.Sign {
			case Negative:
				assert.False(t, v.IsPositive(), typ)
			case Positive:
				assert.False(t, v.IsNegative(), typ)
			}
		}
	}
}

func TestEitherSignProducesBoth(t *testing.T) {
	g := seeder.NewDataGenerator(3)
	rule := Transaction("Transfer")
	assert.Equal(t, Either, rule.Sign)

	var pos, neg int
	for i := 0; i < 200; i++ {
		if rule.Draw(g).IsNegative() {
			neg++
		} else {
			pos++
		}
	}
	assert.Positive(t, pos)
	assert.Positive(t, neg)
}

func TestBalanceRules(t *testing.T) {
	limit := decimal.NewFromInt(10000)
	credit := Balance(CategoryCredit, limit)
	assert.Equal(t, Negative, credit.Sign)
	assert.InDelta(t, 7000, credit.High, 1e-9)

	assert.True(t, credit.Allows(decimal.NewFromFloat(-6999.99)))
	assert.False(t, credit.Allows(decimal.NewFromFloat(-7500)))
	assert.False(t, credit.Allows(decimal.NewFromFloat(100)))

	loan := Balance(CategoryLoan, decimal.Zero)
	assert.False(t, loan.Allows(decimal.NewFromFloat(-100)))
	assert.True(t, loan.Allows(decimal.NewFromFloat(-5000)))

	assert.Equal(t, Positive, Balance(CategoryDeposit, decimal.Zero).Sign)
	assert.Equal(t, otherBalance, Balance(CategoryInvestment, decimal.Zero))
}
