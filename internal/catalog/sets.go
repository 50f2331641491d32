package catalog

import "github.com/verte-zerg/cryptomatch/internal/model"

var defaultSets = [][]model.WordPair{
	// Set 1: Blockchain Basics
	{
		{Term: "Blockchain", Definition: "A distributed ledger that records transactions across a network of computers"},
		{Term: "Block", Definition: "A collection of transactions bundled together and added to the chain"},
		{Term: "Consensus", Definition: "Agreement between nodes on the true state of the network"},
		{Term: "DApp", Definition: "Decentralized Application that runs on a blockchain network"},
		{Term: "Mining", Definition: "Process of validating transactions and creating new blocks"},
	},
	// Set 2: Ethereum Concepts
	{
		{Term: "Gas", Definition: "Computational fee required to execute transactions on Ethereum"},
		{Term: "Wei", Definition: "Smallest denomination of Ether (1 ETH = 10^18 Wei)"},
		{Term: "gwei", Definition: "Unit of Ether commonly used for gas prices (1 gwei = 10^9 Wei)"},
		{Term: "EVM", Definition: "Ethereum Virtual Machine that executes smart contract code"},
		{Term: "Mainnet", Definition: "Primary network where actual transactions occur"},
	},
	// Set 3: Smart Contracts
	{
		{Term: "Smart Contract", Definition: "Self-executing code that automatically enforces digital agreements"},
		{Term: "Solidity", Definition: "Primary programming language for writing Ethereum smart contracts"},
		{Term: "Event", Definition: "Logging mechanism in smart contracts to track state changes"},
		{Term: "Oracle", Definition: "External data source that provides information to smart contracts"},
		{Term: "Trustless", Definition: "System where participants don't need to trust each other to transact"},
	},
	// Set 4: Accounts & Wallets
	{
		{Term: "Address", Definition: "Unique identifier for sending and receiving cryptocurrency"},
		{Term: "Private Key", Definition: "Secret code that gives access to cryptocurrency and proves ownership"},
		{Term: "HD Wallet", Definition: "Hierarchical deterministic wallet that generates keys from a seed phrase"},
		{Term: "EOA", Definition: "Externally Owned Account controlled by private keys"},
		{Term: "Zero Address", Definition: "Special Ethereum address (0x0) used for contract creation"},
	},
	// Set 5: DeFi Concepts
	{
		{Term: "DeFi", Definition: "Decentralized Finance applications built on blockchain"},
		{Term: "Impermanent Loss", Definition: "Temporary loss of funds when providing liquidity to trading pools"},
		{Term: "DAO", Definition: "Decentralized Autonomous Organization governed by smart contracts"},
		{Term: "Staking", Definition: "Locking up tokens to support network operations and earn rewards"},
		{Term: "Yield Farming", Definition: "Strategy of lending or staking assets to maximize returns"},
	},
	// Set 6: NFT & Digital Assets
	{
		{Term: "NFT", Definition: "Non-Fungible Token representing unique digital assets"},
		{Term: "IPFS", Definition: "InterPlanetary File System for decentralized storage"},
		{Term: "Metadata", Definition: "Additional information describing NFT properties"},
		{Term: "Minting", Definition: "Process of creating new tokens or NFTs"},
		{Term: "Royalties", Definition: "Automatic payments to creators on secondary NFT sales"},
	},
	// Set 7: Security Concepts
	{
		{Term: "Re-entrancy", Definition: "Smart contract vulnerability where functions can be called repeatedly before completion"},
		{Term: "Double Spend", Definition: "Attack attempting to use the same funds twice"},
		{Term: "Slashing", Definition: "Penalty mechanism in proof of stake for malicious behavior"},
		{Term: "Hash", Definition: "Cryptographic function that generates fixed-size output from input"},
		{Term: "ECDSA", Definition: "Elliptic Curve Digital Signature Algorithm for transaction signing"},
	},
	// Set 8: Network Types
	{
		{Term: "Testnet", Definition: "Test network for development without real value at stake"},
		{Term: "Sidechain", Definition: "Separate blockchain connected to main chain for scaling"},
		{Term: "Layer 2", Definition: "Scaling solution built on top of main blockchain"},
		{Term: "Sharding", Definition: "Splitting blockchain into multiple pieces for better scalability"},
		{Term: "Bridge", Definition: "Connection allowing assets to move between different blockchains"},
	},
	// Set 9: Transaction Components
	{
		{Term: "Nonce", Definition: "Number used once to prevent transaction replay"},
		{Term: "Gas Limit", Definition: "Maximum amount of gas willing to spend on transaction"},
		{Term: "Gas Price", Definition: "Amount of ether per unit of gas for transaction"},
		{Term: "Signature", Definition: "Cryptographic proof of transaction authorization"},
		{Term: "Block Time", Definition: "Average time between new blocks being added"},
	},
	// Set 10: Development Tools
	{
		{Term: "Web3.js", Definition: "JavaScript library for interacting with Ethereum"},
		{Term: "Hardhat", Definition: "Development environment for building and testing smart contracts"},
		{Term: "Truffle", Definition: "Framework for smart contract development and testing"},
		{Term: "Ganache", Definition: "Personal blockchain for Ethereum development"},
		{Term: "Remix", Definition: "Web-based IDE for Solidity development"},
	},
	// Set 11: Token Standards
	{
		{Term: "ERC20", Definition: "Standard interface for fungible tokens on Ethereum"},
		{Term: "ERC721", Definition: "Standard interface for non-fungible tokens (NFTs)"},
		{Term: "ERC1155", Definition: "Multi-token standard supporting both fungible and non-fungible tokens"},
		{Term: "ERC4626", Definition: "Tokenized vault standard for yield-bearing tokens"},
		{Term: "ERC2981", Definition: "NFT royalty standard for on-chain royalty info"},
	},
	// Set 12: Consensus Mechanisms
	{
		{Term: "Proof of Work", Definition: "Consensus mechanism requiring computational work to validate blocks"},
		{Term: "Proof of Stake", Definition: "Consensus mechanism where validators stake tokens to secure network"},
		{Term: "Proof of Authority", Definition: "Consensus mechanism where approved validators confirm transactions"},
		{Term: "Delegated Proof of Stake", Definition: "Stake-based consensus where token holders vote for validators"},
		{Term: "Byzantine Fault Tolerance", Definition: "Ability of a system to handle malicious actors in consensus"},
	},
	// Set 13: Cryptography Concepts
	{
		{Term: "Public Key", Definition: "Publicly shared key for receiving transactions"},
		{Term: "Digital Signature", Definition: "Cryptographic proof of message authenticity and ownership"},
		{Term: "Merkle Tree", Definition: "Data structure for efficient verification of large datasets"},
		{Term: "Zero Knowledge Proof", Definition: "Method to prove knowledge without revealing the information"},
		{Term: "SHA256", Definition: "Cryptographic hash function used in blockchain systems"},
	},
	// Set 14: Governance & Voting
	{
		{Term: "Governance Token", Definition: "Token granting voting rights in protocol decisions"},
		{Term: "Proposal", Definition: "Suggested change to protocol parameters or code"},
		{Term: "Quorum", Definition: "Minimum participation required for valid governance vote"},
		{Term: "Timelock", Definition: "Delay period before governance changes take effect"},
		{Term: "Snapshot", Definition: "Record of token holdings at specific block for voting power"},
	},
	// Set 15: DEX Concepts
	{
		{Term: "Liquidity Pool", Definition: "Smart contract holding token pairs for trading"},
		{Term: "AMM", Definition: "Automated Market Maker system for token price determination"},
		{Term: "Slippage", Definition: "Price difference between expected and executed trade"},
		{Term: "Trading Pair", Definition: "Two tokens that can be traded against each other"},
		{Term: "Price Impact", Definition: "Effect of trade size on token price in liquidity pool"},
	},
	// Set 16: Cross-chain Technology
	{
		{Term: "Bridge Contract", Definition: "Smart contract enabling cross-chain asset transfers"},
		{Term: "Wrapped Token", Definition: "Token representing asset from another blockchain"},
		{Term: "Relay Chain", Definition: "Central chain coordinating multiple parallel chains"},
		{Term: "Cross-chain Message", Definition: "Communication between different blockchain networks"},
		{Term: "Atomic Swap", Definition: "Trustless exchange of tokens across different chains"},
	},
	// Set 17: Web3 Infrastructure
	{
		{Term: "RPC Node", Definition: "Server providing access to blockchain network"},
		{Term: "IPFS Gateway", Definition: "Access point for decentralized storage system"},
		{Term: "ENS", Definition: "Ethereum Name Service for human-readable addresses"},
		{Term: "Indexer", Definition: "Service organizing blockchain data for efficient queries"},
		{Term: "Subgraph", Definition: "Data indexing schema for blockchain events"},
	},
	// Set 18: Privacy Solutions
	{
		{Term: "Ring Signature", Definition: "Cryptographic method hiding sender among group"},
		{Term: "Mixer", Definition: "Protocol for obscuring transaction source and destination"},
		{Term: "Stealth Address", Definition: "One-time address generation for privacy"},
		{Term: "Confidential Transaction", Definition: "Transaction hiding amount while proving validity"},
		{Term: "ZK-Rollup", Definition: "Layer 2 scaling with private transaction data"},
	},
	// Set 19: Tokenomics
	{
		{Term: "Token Supply", Definition: "Total number of tokens in circulation"},
		{Term: "Vesting", Definition: "Gradual release of tokens over time"},
		{Term: "Emission Rate", Definition: "Speed at which new tokens are created"},
		{Term: "Token Burn", Definition: "Permanent removal of tokens from circulation"},
		{Term: "Token Lock", Definition: "Restriction on token transfer for a period"},
	},
	// Set 20: MEV Concepts
	{
		{Term: "MEV", Definition: "Maximal Extractable Value from transaction ordering"},
		{Term: "Frontrunning", Definition: "Placing transaction ahead of pending transaction"},
		{Term: "Sandwich Attack", Definition: "Profiting from trades by manipulating token price"},
		{Term: "Flashbots", Definition: "Infrastructure for fair transaction ordering"},
		{Term: "Arbitrage", Definition: "Profiting from price differences across markets"},
	},
}
