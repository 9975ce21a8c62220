package transaction

import (
	"encoding/hex"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

const (
	// transferMethodID ERC-20 transfer(address,uint256) 的函数选择器
	transferMethodID = "a9059cbb"
	// paddedWordLength ABI 参数补齐后的字节长度
	paddedWordLength = 32
)

// EncodeTokenTransfer 编码 ERC-20 transfer(address,uint256) 调用数据
// 输出为 0x 前缀的小写十六进制，长度恒为 2 + 8 + 64 + 64 = 138
// 这是链上执行的线格式约定，任何偏差都会导致交易失败
func (s *service) EncodeTokenTransfer(to string, amount *big.Int) (string, error) {
	if !s.ValidateAddress(to) {
		return "", errors.Errorf("invalid recipient address: %s", to)
	}
	if amount == nil || amount.Sign() < 0 {
		return "", errors.New("transfer amount must be non-negative")
	}

	methodID, err := hex.DecodeString(transferMethodID)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode transfer method ID")
	}

	recipient := common.HexToAddress(to)

	data := make([]byte, 0, len(methodID)+2*paddedWordLength)
	data = append(data, methodID...)
	data = append(data, common.LeftPadBytes(recipient.Bytes(), paddedWordLength)...)
	data = append(data, common.LeftPadBytes(amount.Bytes(), paddedWordLength)...)

	return "0x" + hex.EncodeToString(data), nil
}

// BuildTokenTransferRequest 构建代币转账请求
// 请求指向代币合约地址，原生价值为零，金额编码进调用数据
func (s *service) BuildTokenTransferRequest(from, to, tokenAddress, amount string, decimals int32) (*Request, error) {
	if !s.ValidateAddress(tokenAddress) {
		return nil, errors.Errorf("invalid token contract address: %s", tokenAddress)
	}

	rawAmount, err := ToSmallestUnit(amount, decimals)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert token amount")
	}

	data, err := s.EncodeTokenTransfer(to, rawAmount)
	if err != nil {
		return nil, err
	}

	return &Request{
		From:  from,
		To:    tokenAddress,
		Value: "0",
		Data:  common.FromHex(data),
	}, nil
}
