package chain

// repositoryABI is the interface description of the deployed repository
// contract. Only the methods this service calls are declared.
const repositoryABI = `[
  {"type":"function","name":"admins","stateMutability":"view","inputs":[{"name":"","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"requestIdCounter","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getRequestInfo","stateMutability":"view","inputs":[{"name":"requestId","type":"uint256"}],"outputs":[
    {"name":"requester","type":"address"},
    {"name":"pdfName","type":"string"},
    {"name":"pdfDescription","type":"string"},
    {"name":"requestTime","type":"uint256"},
    {"name":"isApproved","type":"bool"},
    {"name":"isProcessed","type":"bool"},
    {"name":"approvalCount","type":"uint256"},
    {"name":"rejectionCount","type":"uint256"}]},
  {"type":"function","name":"getRequestPDFHash","stateMutability":"view","inputs":[{"name":"requestId","type":"uint256"}],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"voteOnRequest","stateMutability":"nonpayable","inputs":[{"name":"requestId","type":"uint256"},{"name":"approve","type":"bool"}],"outputs":[]},
  {"type":"function","name":"createRequest","stateMutability":"nonpayable","inputs":[{"name":"pdfName","type":"string"},{"name":"pdfDescription","type":"string"},{"name":"pdfHash","type":"string"}],"outputs":[]},
  {"type":"function","name":"subscriptionTier","stateMutability":"view","inputs":[{"name":"","type":"address"}],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"subscriptionExpiry","stateMutability":"view","inputs":[{"name":"","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"basicTierPrice","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"premiumTierPrice","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"userUploadCount","stateMutability":"view","inputs":[{"name":"","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"freeTierUploadLimit","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"basicTierUploadLimit","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"purchaseSubscription","stateMutability":"payable","inputs":[{"name":"tier","type":"uint8"}],"outputs":[]}
]`
