package issuance

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashgraph-online/issuance-sdk-go/pkg/kvstore"
	"github.com/hashgraph-online/issuance-sdk-go/pkg/shared"
)

var (
	contractInfoItem = kvstore.NewItem[ContractInfo]("contract_info")
	coreAddressItem  = kvstore.NewItem[string]("core_address")
	denomItem        = kvstore.NewItem[string]("denom")
	provisionedItem  = kvstore.NewItem[bool]("denom_provisioned")
)

// DenomResolver resolves the canonical registry name of a denomination.
type DenomResolver interface {
	ResolveFullDenomination(ctx context.Context, owner string, subdenom string) (string, error)
}

type Controller struct {
	address  string
	resolver DenomResolver
}

// NewController creates a controller living at address. The resolver is
// queried when denomination provisioning is confirmed.
func NewController(address string, resolver DenomResolver) (*Controller, error) {
	normalized, err := normalizeAddress(address)
	if err != nil {
		return nil, err
	}
	if resolver == nil {
		return nil, fmt.Errorf("denom resolver is required")
	}
	return &Controller{address: normalized, resolver: resolver}, nil
}

// Address returns the controller's own address, the owner of its denomination.
func (controller *Controller) Address() string {
	return controller.address
}

// Instantiate records the authority and the provisional subdenom and requests
// creation of the denomination.
func (controller *Controller) Instantiate(
	ctx context.Context,
	store kvstore.Store,
	_ MessageInfo,
	msg InstantiateMsg,
) (Response, error) {
	core, err := normalizeAddress(msg.CoreAddress)
	if err != nil {
		return Response{}, err
	}
	subdenom := strings.TrimSpace(msg.Subdenom)
	if subdenom == "" {
		return Response{}, InvalidSubdenomError{
			IssuanceError: IssuanceError{Message: "subdenom is required"},
			Subdenom:      msg.Subdenom,
		}
	}

	if err := contractInfoItem.Save(ctx, store, ContractInfo{
		Contract: ContractName,
		Version:  ContractVersion,
	}); err != nil {
		return Response{}, err
	}
	if err := coreAddressItem.Save(ctx, store, core); err != nil {
		return Response{}, err
	}
	if err := denomItem.Save(ctx, store, subdenom); err != nil {
		return Response{}, err
	}

	response := newResponse(ActionInstantiate, attr("core_address", core), attr("subdenom", subdenom))
	response.Messages = append(response.Messages, SubMsg{
		ID:      CreateDenomReplyID,
		ReplyOn: ReplyOnSuccess,
		Msg:     CreateDenomMsg{Subdenom: subdenom},
	})
	return response, nil
}

// Execute authorizes the sender against the stored authority, then runs the
// requested operation.
func (controller *Controller) Execute(
	ctx context.Context,
	store kvstore.Store,
	info MessageInfo,
	msg ExecuteMsg,
) (Response, error) {
	if (msg.Mint == nil) == (msg.Burn == nil) {
		return Response{}, InvalidMessageError{
			IssuanceError: IssuanceError{Message: "execute message must carry exactly one operation"},
		}
	}

	core, err := coreAddressItem.Load(ctx, store)
	if err != nil {
		return Response{}, err
	}
	sender, err := shared.NormalizeEntityID(info.Sender)
	if err != nil || sender != core {
		return Response{}, NewUnauthorizedError(info.Sender)
	}

	if msg.Mint != nil {
		return controller.mint(ctx, store, *msg.Mint)
	}
	return controller.burn(ctx, store, info)
}

func (controller *Controller) mint(ctx context.Context, store kvstore.Store, msg MintMsg) (Response, error) {
	if msg.Amount == 0 {
		return Response{}, NewNothingToMintError()
	}
	receiver, err := normalizeAddress(msg.Receiver)
	if err != nil {
		return Response{}, err
	}
	denom, err := denomItem.Load(ctx, store)
	if err != nil {
		return Response{}, err
	}

	response := newResponse(ActionMint, coinAttr("amount", msg.Amount, denom), attr("receiver", receiver))
	response.Messages = append(response.Messages, SubMsg{
		ReplyOn: ReplyNever,
		Msg:     MintTokensMsg{Denom: denom, Amount: msg.Amount, Receiver: receiver},
	})
	return response, nil
}

func (controller *Controller) burn(ctx context.Context, store kvstore.Store, info MessageInfo) (Response, error) {
	denom, err := denomItem.Load(ctx, store)
	if err != nil {
		return Response{}, err
	}
	amount, err := MustPay(info.Funds, denom)
	if err != nil {
		return Response{}, err
	}

	response := newResponse(ActionBurn, coinAttr("amount", amount, denom))
	response.Messages = append(response.Messages, SubMsg{
		ReplyOn: ReplyNever,
		Msg:     BurnTokensMsg{Denom: denom, Amount: amount},
	})
	return response, nil
}

// Config returns the authority and the current denomination.
func (controller *Controller) Config(ctx context.Context, store kvstore.Store) (ConfigResponse, error) {
	core, err := coreAddressItem.Load(ctx, store)
	if err != nil {
		return ConfigResponse{}, err
	}
	denom, err := denomItem.Load(ctx, store)
	if err != nil {
		return ConfigResponse{}, err
	}
	return ConfigResponse{CoreAddress: core, Denom: denom}, nil
}

// ContractInfo returns the contract name and version recorded at instantiation.
func (controller *Controller) ContractInfo(ctx context.Context, store kvstore.Store) (ContractInfo, error) {
	return contractInfoItem.Load(ctx, store)
}

// Reply applies the outcome of a correlated request.
func (controller *Controller) Reply(ctx context.Context, store kvstore.Store, reply Reply) (Response, error) {
	switch reply.ID {
	case CreateDenomReplyID:
		return controller.replyCreateDenom(ctx, store, reply)
	default:
		return Response{}, NewUnknownReplyIDError(reply.ID)
	}
}

func (controller *Controller) replyCreateDenom(ctx context.Context, store kvstore.Store, reply Reply) (Response, error) {
	subdenom, err := denomItem.Load(ctx, store)
	if err != nil {
		return Response{}, err
	}
	if reply.Err != nil {
		return Response{}, ProvisioningFailedError{
			IssuanceError: IssuanceError{Message: fmt.Sprintf("denomination provisioning failed: %v", reply.Err)},
			Subdenom:      subdenom,
		}
	}

	provisioned, _, err := provisionedItem.MayLoad(ctx, store)
	if err != nil {
		return Response{}, err
	}
	if provisioned {
		return Response{}, AlreadyProvisionedError{
			IssuanceError: IssuanceError{Message: fmt.Sprintf("denomination %s is already provisioned", subdenom)},
			Denom:         subdenom,
		}
	}

	fullDenom, err := controller.resolver.ResolveFullDenomination(ctx, controller.address, subdenom)
	if err != nil {
		return Response{}, fmt.Errorf("failed to resolve full denom for %s: %w", subdenom, err)
	}
	if err := denomItem.Save(ctx, store, fullDenom); err != nil {
		return Response{}, err
	}
	if err := provisionedItem.Save(ctx, store, true); err != nil {
		return Response{}, err
	}

	return newResponse(ActionReplyCreateDenom, attr("denom", fullDenom)), nil
}

// Migrate accepts a code upgrade without touching state.
func (controller *Controller) Migrate(_ context.Context, _ kvstore.Store) (Response, error) {
	return newResponse(ActionMigrate), nil
}

func normalizeAddress(address string) (string, error) {
	normalized, err := shared.NormalizeEntityID(address)
	if err != nil {
		return "", NewInvalidAddressError(address)
	}
	return normalized, nil
}
