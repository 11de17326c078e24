package issuance

import (
	"github.com/hashgraph-online/issuance-sdk-go/pkg/registry"
)

const (
	ContractName    = "issuance-controller"
	ContractVersion = "1.0.0"

	CreateDenomReplyID uint64 = 1

	ActionInstantiate      = "instantiate"
	ActionMint             = "execute-mint"
	ActionBurn             = "execute-burn"
	ActionReplyCreateDenom = "reply-create-denom"
	ActionMigrate          = "migrate"
)

type MessageInfo struct {
	Sender string
	Funds  []registry.Coin
}

type InstantiateMsg struct {
	CoreAddress string `json:"core_address"`
	Subdenom    string `json:"subdenom"`
}

// ExecuteMsg carries exactly one operation.
type ExecuteMsg struct {
	Mint *MintMsg `json:"mint,omitempty"`
	Burn *BurnMsg `json:"burn,omitempty"`
}

type MintMsg struct {
	Amount   uint64 `json:"amount,string"`
	Receiver string `json:"receiver"`
}

type BurnMsg struct{}

type ConfigResponse struct {
	CoreAddress string `json:"core_address"`
	Denom       string `json:"denom"`
}

type ContractInfo struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
}

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type ReplyOn int

const (
	ReplyNever ReplyOn = iota
	ReplyOnSuccess
	ReplyOnError
	ReplyAlways
)

// Expects reports whether a reply is due for an outcome.
func (replyOn ReplyOn) Expects(succeeded bool) bool {
	switch replyOn {
	case ReplyAlways:
		return true
	case ReplyOnSuccess:
		return succeeded
	case ReplyOnError:
		return !succeeded
	default:
		return false
	}
}

// RegistryMsg is an outbound instruction for the token-supply registry.
type RegistryMsg interface {
	Kind() string
}

type CreateDenomMsg struct {
	Subdenom string
}

func (CreateDenomMsg) Kind() string { return "create_denom" }

type MintTokensMsg struct {
	Denom    string
	Amount   uint64
	Receiver string
}

func (MintTokensMsg) Kind() string { return "mint_tokens" }

type BurnTokensMsg struct {
	Denom  string
	Amount uint64
}

func (BurnTokensMsg) Kind() string { return "burn_tokens" }

type SubMsg struct {
	ID      uint64
	ReplyOn ReplyOn
	Msg     RegistryMsg
}

type Response struct {
	Event      string
	Action     string
	Attributes []Attribute
	Messages   []SubMsg
}

// Attribute returns the first attribute value stored under key.
func (response Response) Attribute(key string) (string, bool) {
	for _, attribute := range response.Attributes {
		if attribute.Key == key {
			return attribute.Value, true
		}
	}
	return "", false
}

// Reply is the correlated follow-up for a SubMsg.
type Reply struct {
	ID    uint64
	Denom string
	Err   error
}

func newResponse(action string, attributes ...Attribute) Response {
	return Response{
		Event:      ContractName + "-" + action,
		Action:     action,
		Attributes: append([]Attribute{{Key: "action", Value: action}}, attributes...),
	}
}

func attr(key string, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func coinAttr(key string, amount uint64, denom string) Attribute {
	return Attribute{Key: key, Value: registry.Coin{Denom: denom, Amount: amount}.String()}
}
