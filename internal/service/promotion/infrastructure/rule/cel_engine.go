// internal/service/promotion/infrastructure/rule/cel_engine.go
package rule

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"flashmart/internal/service/promotion/domain"
)

// CELRuleEngine 是 domain.RuleEngine 接口的具体实现。
// 规则条件用 CEL 表达式描述（如 "subtotal >= 20.0 && item_count >= 2"），
// 这是一个典型的适配器：把第三方表达式引擎适配到我们自己的领域接口。
type CELRuleEngine struct {
	env      *cel.Env
	mu       sync.RWMutex
	programs map[string]cel.Program // 按表达式缓存编译结果
}

// NewCELRuleEngine 创建规则引擎并声明条件表达式可见的变量。
func NewCELRuleEngine() (*CELRuleEngine, error) {
	env, err := cel.NewEnv(
		cel.Variable("subtotal", cel.DoubleType),
		cel.Variable("item_count", cel.IntType),
		cel.Variable("customer_id", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel environment: %w", err)
	}
	return &CELRuleEngine{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// Evaluate 实现了 domain.RuleEngine 接口。
func (e *CELRuleEngine) Evaluate(condition string, fact domain.Fact) (bool, error) {
	program, err := e.compile(condition)
	if err != nil {
		return false, err
	}

	out, _, err := program.Eval(map[string]interface{}{
		"subtotal":    fact.Subtotal,
		"item_count":  fact.ItemCount,
		"customer_id": fact.CustomerID,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate rule condition: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule condition %q did not evaluate to a boolean", condition)
	}
	return result, nil
}

func (e *CELRuleEngine) compile(condition string) (cel.Program, error) {
	e.mu.RLock()
	program, ok := e.programs[condition]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}

	ast, issues := e.env.Compile(condition)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile rule condition %q: %w", condition, issues.Err())
	}
	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build rule program: %w", err)
	}

	e.mu.Lock()
	e.programs[condition] = program
	e.mu.Unlock()
	return program, nil
}
