package catalog

// GroupOrder is the palette order of service groups.
var GroupOrder = []string{
	"Frequent",
	"Frame",
	"Network",
	"general",
	"Management",
	"Serverless",
	"Managed Instance",
	"Storage / Data",
	"Analytics",
	"Security",
	"AI",
	"Code",
	"Others",
}

// Category colors.
const (
	ColorCompute     = "#F58536"
	ColorSecurity    = "#DD344C"
	ColorDatabase    = "#C925D1"
	ColorDatabaseOld = "#3F48CC"
	ColorNetworking  = "#8C4FFF"
	ColorML          = "#01A88D"
	ColorGeneral     = "#506070"
	ColorGeneralDark = "#232F3E"
	ColorManagement  = "#E7157B"
	ColorStorage     = "#7AA116"
)

var awsServices = []Service{
	{Kind: "EC2", Group: "Frequent", Color: ColorCompute},
	{Kind: "S3", Group: "Frequent", Color: ColorStorage},
	{Kind: "ELB", Group: "Frequent", ButtonText: "ALB/NLB", Color: ColorNetworking},
	{Kind: "RDS", Group: "Frequent", Color: ColorDatabaseOld},
	{Kind: "Users", Group: "Frequent", ButtonText: "ユーザー", Color: ColorGeneralDark},
	{Kind: "Internet", Group: "Frequent", ButtonText: "インターネット", Color: ColorGeneralDark},
	{Kind: "InternetGW", Group: "Frequent", ButtonText: "Internet GW", Color: ColorNetworking},
	{Kind: "OtherService", Group: "Frequent", ButtonText: "その他", Color: ColorGeneral},

	{Kind: "Account", Group: "Frame", ButtonText: "アカウント", IsFrame: true, ZLayer: 20, Color: ColorGeneralDark},
	{Kind: "Region", Group: "Frame", ButtonText: "リージョン", IsFrame: true, ZLayer: 40, Color: "#00A4A6"},
	{Kind: "AZ", Group: "Frame", IsFrame: true, ZLayer: 60, Color: "#147EBA"},
	{Kind: "VPC", Group: "Frame", IsFrame: true, ZLayer: 60, Color: ColorNetworking},
	{Kind: "PublicSubnet", Group: "Frame", ButtonText: "Public Subnet", IsFrame: true, ZLayer: 80, Color: "#7AA116"},
	{Kind: "PrivateSubnet", Group: "Frame", ButtonText: "Private Subnet", IsFrame: true, ZLayer: 80, Color: "#00A4A6"},
	{Kind: "AutoScaling", Group: "Frame", ButtonText: "Auto Scaling Group", IsFrame: true, ZLayer: 90, Color: "#D86613"},
	{Kind: "StepFunctions", Group: "Frame", ButtonText: "Step Functions", IsFrame: true, ZLayer: 60, Color: "#CD2264"},
	{Kind: "Building", Group: "Frame", ButtonText: "データセンター", IsFrame: true, ZLayer: 20, Color: "#7D8998"},
	{Kind: "GeneralGroup", Group: "Frame", ButtonText: "グループ", IsFrame: true, ZLayer: 90, Color: ColorGeneral},

	{Kind: "NATGW", Group: "Network", ButtonText: "NAT GW", Color: ColorNetworking},
	{Kind: "VPCEndpoint", Group: "Network", ButtonText: "VPC Endpoint", Color: ColorNetworking},
	{Kind: "Route53", Group: "Network", Color: ColorNetworking},
	{Kind: "WAF", Group: "Network", Color: ColorSecurity},
	{Kind: "NetworkFirewall", Group: "Network", ButtonText: "Network Firewall", Color: ColorSecurity},
	{Kind: "SitetoSiteVPN", Group: "Network", ButtonText: "Site-to-Site VPN", Color: ColorNetworking},
	{Kind: "DirectConnect", Group: "Network", ButtonText: "Direct Connect", Color: ColorNetworking},
	{Kind: "TransitGW", Group: "Network", ButtonText: "Transit GW", Color: ColorNetworking},

	{Kind: "Client", Group: "general", ButtonText: "PC端末", Color: ColorGeneralDark},
	{Kind: "Server", Group: "general", ButtonText: "サーバー", Color: ColorGeneralDark},
	{Kind: "Mobile", Group: "general", ButtonText: "モバイル端末", Color: ColorGeneralDark},
	{Kind: "Storage", Group: "general", ButtonText: "ストレージ", Color: ColorGeneralDark},
	{Kind: "Files", Group: "general", ButtonText: "ファイル", Color: ColorGeneralDark},
	{Kind: "Folders", Group: "general", ButtonText: "フォルダ", Color: ColorGeneralDark},
	{Kind: "Mail", Group: "general", ButtonText: "メール", Color: ColorGeneralDark},
	{Kind: "Repeat", Group: "general", ButtonText: "繰り返し", Color: ColorGeneralDark},
	{Kind: "Search", Group: "general", ButtonText: "検索", Color: ColorGeneralDark},
	{Kind: "Certification", Group: "general", ButtonText: "認証", Color: ColorGeneralDark},
	{Kind: "TextBox", Group: "general", Color: ColorGeneralDark},

	{Kind: "CloudWatch", Group: "Management", Color: ColorManagement},
	{Kind: "SystemsManager", Group: "Management", Color: ColorManagement},
	{Kind: "SNS", Group: "Management", Color: ColorManagement},
	{Kind: "EventBridge", Group: "Management", Color: ColorManagement},
	{Kind: "CloudFormation", Group: "Management", Color: ColorManagement},

	{Kind: "SQS", Group: "Serverless", Color: ColorManagement},
	{Kind: "Lambda", Group: "Serverless", Color: ColorCompute},
	{Kind: "DynamoDB", Group: "Serverless", ButtonText: "Dynamo DB", Color: ColorDatabase},
	{Kind: "APIGateway", Group: "Serverless", ButtonText: "API Gateway", Color: ColorNetworking},
	{Kind: "CloudFront", Group: "Serverless", Color: ColorNetworking},
	{Kind: "SES", Group: "Serverless", Color: ColorManagement},

	{Kind: "Cognito", Group: "Security", Color: ColorSecurity},
	{Kind: "SecretsManager", Group: "Security", Color: ColorSecurity},
	{Kind: "KMS", Group: "Security", Color: ColorSecurity},
	{Kind: "CloudTrail", Group: "Security", Color: ColorManagement},
	{Kind: "GuardDuty", Group: "Security", Color: ColorSecurity},
	{Kind: "IAMRole", Group: "Security", ButtonText: "IAMロール", Color: ColorSecurity},
	{Kind: "IdentityCenter", Group: "Security", ButtonText: "Identity Center", Color: ColorSecurity},

	{Kind: "FSx", Group: "Storage / Data", ButtonText: "FSx", Color: ColorStorage},
	{Kind: "EFS", Group: "Storage / Data", Color: ColorStorage},
	{Kind: "Backup", Group: "Storage / Data", Color: ColorStorage},
	{Kind: "StorageGateway", Group: "Storage / Data", Color: ColorStorage},
	{Kind: "ECR", Group: "Storage / Data", Color: ColorCompute},
	{Kind: "Snapshot", Group: "Storage / Data", Color: ColorStorage},

	{Kind: "Glue", Group: "Analytics", Color: ColorNetworking},
	{Kind: "EMR", Group: "Analytics", Color: ColorNetworking},
	{Kind: "OpenSearch", Group: "Analytics", Color: ColorNetworking},
	{Kind: "LakeFormation", Group: "Analytics", Color: ColorNetworking},

	{Kind: "Redshift", Group: "Managed Instance", Color: ColorDatabase},
	{Kind: "ElastiCache", Group: "Managed Instance", Color: ColorDatabase},
	{Kind: "ManagedAD", Group: "Managed Instance", ButtonText: "Managed MS AD", Color: ColorSecurity},
	{Kind: "ECS", Group: "Managed Instance", Color: ColorCompute},
	{Kind: "EKS", Group: "Managed Instance", Color: ColorCompute},

	{Kind: "BedRock", Group: "AI", Color: ColorML},
	{Kind: "SageMaker", Group: "AI", ButtonText: "SageMaker", Color: ColorML},

	{Kind: "CodePipeline", Group: "Code", Color: ColorDatabase},
	{Kind: "CodeBuild", Group: "Code", Color: ColorDatabase},
	{Kind: "CodeDeploy", Group: "Code", Color: ColorDatabase},

	{Kind: "Organizations", Group: "Others", Color: ColorSecurity},
	{Kind: "Amplify", Group: "Others", Color: ColorSecurity},
	{Kind: "MGN", Group: "Others", Color: ColorML},
	{Kind: "DMS", Group: "Others", Color: ColorDatabase},
	{Kind: "AppStream", Group: "Others", Color: ColorML},
	{Kind: "Workspaces", Group: "Others", Color: ColorML},
	{Kind: "DataFirehose", Group: "Others", ButtonText: "Data Firehose", Color: ColorNetworking},
	{Kind: "QuickSight", Group: "Others", Color: ColorNetworking},
	{Kind: "Athena", Group: "Others", Color: ColorNetworking},
	{Kind: "AMI", Group: "Others", Color: ColorCompute},
}
